package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thywilljoshua/slidenotes/internal/pipeline"
	"github.com/thywilljoshua/slidenotes/internal/store"
)

// runBatch runs the pipeline over paths with progress on stderr. A partial
// result comes back together with the error that stopped the batch.
func (a *app) runBatch(cmd *cobra.Command, paths []string, pcfg pipeline.Config) (*pipeline.Result, error) {
	files, err := readFiles(paths)
	if err != nil {
		return nil, err
	}
	gen, err := a.generator(cmd.Context())
	if err != nil {
		return nil, err
	}
	pcfg.Extractor = a.cfg.NewExtractor(a.log)
	pcfg.Generator = gen
	pcfg.Logger = a.log
	stderr := cmd.ErrOrStderr()
	pcfg.OnProgress = func(p pipeline.Progress) {
		if p.Finished() {
			fmt.Fprintf(stderr, "[%d/%d] done\n", p.Done, p.Total)
			return
		}
		fmt.Fprintf(stderr, "[%d/%d] %s\n", p.Done+1, p.Total, p.File)
	}
	return pipeline.Run(cmd.Context(), files, pcfg)
}

// saveResult stores res as a new session and reports its id on stderr.
func (a *app) saveResult(cmd *cobra.Command, title string, res *pipeline.Result) error {
	st, err := a.openStore()
	if err != nil {
		return err
	}
	defer st.Close()
	sess := store.NewSession(title, res)
	if err := st.SaveSession(cmd.Context(), sess); err != nil {
		return err
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "saved session %s\n", sess.ID)
	return nil
}
