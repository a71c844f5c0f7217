package notes

import (
	"regexp"
	"strings"
)

// Summary is the model's note-taking output split into its labelled parts.
type Summary struct {
	Goal      string   `json:"goal,omitempty" yaml:"goal,omitempty" msgpack:"goal,omitempty"`
	Summary   string   `json:"summary,omitempty" yaml:"summary,omitempty" msgpack:"summary,omitempty"`
	Questions []string `json:"questions,omitempty" yaml:"questions,omitempty" msgpack:"questions,omitempty"`
	Clear     []string `json:"clear,omitempty" yaml:"clear,omitempty" msgpack:"clear,omitempty"`
	Unclear   []string `json:"unclear,omitempty" yaml:"unclear,omitempty" msgpack:"unclear,omitempty"`
	Comments  string   `json:"comments,omitempty" yaml:"comments,omitempty" msgpack:"comments,omitempty"`
	Raw       string   `json:"raw" yaml:"raw" msgpack:"raw"`
}

// Part is one titled block of a Summary, in display order.
type Part struct {
	Title string
	Text  string
	Items []string
}

// Parts returns the non-empty sections in template order.
func (s Summary) Parts() []Part {
	all := []Part{
		{Title: LabelGoal, Text: s.Goal},
		{Title: LabelSummary, Text: s.Summary},
		{Title: LabelQuestions, Items: s.Questions},
		{Title: LabelClear, Items: s.Clear},
		{Title: LabelUnclear, Items: s.Unclear},
		{Title: LabelComments, Text: s.Comments},
	}
	var out []Part
	for _, p := range all {
		if p.Text != "" || len(p.Items) > 0 {
			out = append(out, p)
		}
	}
	return out
}

// Structured reports whether any labelled section was recognised.
func (s Summary) Structured() bool { return len(s.Parts()) > 0 }

type sectionKind int

const (
	secNone sectionKind = iota
	secGoal
	secSummary
	secQuestions
	secClear
	secUnclear
	secComments
)

// Longer labels first so "Nejasno" is never read as "Jasno".
var labelOrder = []struct {
	label string
	kind  sectionKind
}{
	{LabelComments, secComments},
	{LabelGoal, secGoal},
	{LabelSummary, secSummary},
	{LabelQuestions, secQuestions},
	{LabelUnclear, secUnclear},
	{LabelClear, secClear},
}

var (
	listMarker = regexp.MustCompile(`^(?:[-*•–]+|\d+[.)]|\[\d+\])\s*`)
	bracketed  = regexp.MustCompile(`^\[(.*)\]$`)
)

// ParseSummary splits model output into sections. Labels are matched at the
// start of a line, case-insensitively, with optional markdown heading, quote
// or bold markers, and must be followed by a colon or the end of the line.
// Text before the first label is kept only in Raw.
func ParseSummary(text string) Summary {
	s := Summary{Raw: strings.TrimSpace(text)}
	cur := secNone
	var goal, sum, comments []string

	add := func(kind sectionKind, line string) {
		if line == "" {
			return
		}
		switch kind {
		case secGoal:
			goal = append(goal, line)
		case secSummary:
			sum = append(sum, line)
		case secComments:
			comments = append(comments, line)
		case secQuestions:
			s.Questions = append(s.Questions, listItem(line))
		case secClear:
			s.Clear = append(s.Clear, listItem(line))
		case secUnclear:
			s.Unclear = append(s.Unclear, listItem(line))
		}
	}

	for _, line := range strings.Split(s.Raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if isDivider(line) {
			continue
		}
		if kind, rest, ok := matchLabel(line); ok {
			cur = kind
			add(cur, rest)
			continue
		}
		add(cur, line)
	}

	s.Goal = strings.Join(goal, " ")
	s.Summary = strings.Join(sum, " ")
	s.Comments = strings.Join(comments, " ")
	return s
}

func stripMarkers(line string) string {
	line = strings.TrimLeft(line, "#> ")
	return strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), "**"))
}

func matchLabel(line string) (sectionKind, string, bool) {
	l := stripMarkers(line)
	for _, lb := range labelOrder {
		n := len(lb.label)
		if len(l) < n || !strings.EqualFold(l[:n], lb.label) {
			continue
		}
		after := strings.TrimSpace(strings.TrimPrefix(l[n:], "**"))
		if after == "" {
			return lb.kind, "", true
		}
		if after[0] != ':' {
			continue
		}
		rest := strings.TrimSpace(after[1:])
		rest = strings.TrimSpace(strings.TrimPrefix(rest, "**"))
		return lb.kind, unbracket(rest), true
	}
	return secNone, "", false
}

func isDivider(line string) bool {
	l := strings.TrimRight(stripMarkers(line), ":* ")
	return strings.EqualFold(l, LabelClear+"/"+LabelUnclear)
}

func listItem(line string) string {
	return unbracket(strings.TrimSpace(listMarker.ReplaceAllString(line, "")))
}

func unbracket(s string) string {
	if m := bracketed.FindStringSubmatch(s); m != nil {
		return strings.TrimSpace(m[1])
	}
	return s
}
