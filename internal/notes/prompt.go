package notes

import (
	"fmt"
	"strings"
)

// Section labels the summary prompt asks the model to use, in output order.
const (
	LabelGoal      = "Cilj teme"
	LabelSummary   = "Sažetak"
	LabelQuestions = "Pitanja"
	LabelClear     = "Jasno"
	LabelUnclear   = "Nejasno"
	LabelComments  = "Komentari i prijedlozi"
)

// SummaryPrompt renders the note-taking system prompt for the given sizes.
func SummaryPrompt(s SizeOptions) string {
	var b strings.Builder
	b.WriteString("Ti si stručnjak za pravljenje bilješki. Analiziraj sadržaj sljedeće prezentacije i sažmi ga prema sljedećoj strukturi:\n")
	b.WriteString(LabelGoal + ": Jasno navedi glavni cilj ili svrhu teme iz prezentacije. Koristi 1–2 rečenice koje sažimaju suštinu.\n")
	fmt.Fprintf(&b, "%s: Sažmi ključne tačke prezentacije u %s rečenica (%d riječi u rečenici maksimalno). Fokusiraj se na najvažnije informacije i ideje.\n",
		LabelSummary, s.Summary, s.MaxWords)
	fmt.Fprintf(&b, "%s: Formuliši %s pitanja koja mogu podstaći diskusiju ili pomoći u boljem razumijevanju prezentacije. Pitanja trebaju biti direktno vezana za sadržaj.\n",
		LabelQuestions, s.Questions)
	b.WriteString(LabelClear + "/" + LabelUnclear + ":\n")
	fmt.Fprintf(&b, "%s: Identificiraj %s koncepta ili dijela koji su jasno objašnjeni i lako razumljivi.\n", LabelClear, s.Clear)
	fmt.Fprintf(&b, "%s: Identificiraj %s kompleksne ili manje objašnjene tačke koje bi zahtijevale dodatna pojašnjenja.\n", LabelUnclear, s.Unclear)
	b.WriteString(LabelComments + ": Ponudi konstruktivne komentare vezane za stil prezentacije, vizualni prikaz ili tehničke aspekte (npr. formatiranje, čitljivost). Predloži poboljšanja ako je potrebno.\n")

	b.WriteString("Format Izlaza:\n")
	b.WriteString(LabelGoal + ": [Tvoj odgovor]\n")
	b.WriteString(LabelSummary + ": [Tvoj odgovor]\n")
	b.WriteString(LabelQuestions + ":\n")
	for i := 1; i <= s.Questions.Max; i++ {
		fmt.Fprintf(&b, "[Pitanje %d]\n", i)
	}
	b.WriteString(LabelClear + ":\n")
	for i := 0; i < s.Clear.Max; i++ {
		b.WriteString("[Jasno objašnjen koncept]\n")
	}
	b.WriteString(LabelUnclear + ":\n")
	for i := 0; i < s.Unclear.Max; i++ {
		b.WriteString("[Nejasno objašnjen koncept]\n")
	}
	b.WriteString(LabelComments + ": [Tvoje povratne informacije i prijedlozi]\n")
	return b.String()
}

// QuizPrompt asks for a multiple-choice quiz as a single JSON object.
func QuizPrompt(q QuizOptions) string {
	var b strings.Builder
	b.WriteString("Ti si iskusan nastavnik. Na osnovu sadržaja sljedeće prezentacije sastavi kviz za provjeru znanja.\n")
	fmt.Fprintf(&b, "Napravi tačno %d pitanja sa višestrukim izborom. Svako pitanje ima tačno %d ponuđena odgovora, od kojih je samo jedan tačan.\n", q.Questions, q.Choices)
	b.WriteString("Pitanja moraju biti direktno vezana za sadržaj prezentacije i pokrivati njene najvažnije dijelove.\n")
	b.WriteString("Uz svako pitanje dodaj kratko objašnjenje tačnog odgovora (jedna rečenica).\n")
	b.WriteString("Vrati ISKLJUČIVO validan JSON, bez markdown blokova i bez dodatnog teksta, u ovom obliku:\n")
	b.WriteString(`{"questions":[{"question":"...","options":["...","..."],"answer":0,"explanation":"..."}]}`)
	b.WriteString("\n")
	fmt.Fprintf(&b, "Polje \"answer\" je indeks tačnog odgovora u nizu \"options\", počevši od 0 (0 do %d).\n", q.Choices-1)
	return b.String()
}
