package cmd

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/pithecene-io/terrace/archive"
	"github.com/pithecene-io/terrace/cli/render"
	"github.com/pithecene-io/terrace/runfolder"
	"github.com/pithecene-io/terrace/stage"
)

// PromoteResponse reports one promote invocation.
type PromoteResponse struct {
	RunFolder   string `json:"run_folder"`
	From        string `json:"from"`
	To          string `json:"to"`
	Result      string `json:"result"`
	Destination string `json:"destination,omitempty"`
	Message     string `json:"message,omitempty"`
	Archived    bool   `json:"archived,omitempty"`
}

// PromoteCommand returns the promote command: one stage transition for
// one run folder. Incoming folders move to analysis; analysis folders
// move to outgoing, gated on the external record when status updates
// are enabled. Folders reaching outgoing get their manifest archived
// when an archive bucket is configured.
func PromoteCommand() *cli.Command {
	return &cli.Command{
		Name:      "promote",
		Usage:     "Move a run folder to its next lifecycle stage",
		ArgsUsage: "<run-folder-path>",
		Flags:     CommonFlags(),
		Action:    promoteAction,
	}
}

func promoteAction(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("promote requires exactly one run folder path", 1)
	}
	path := c.Args().First()

	r, err := render.NewRenderer(c)
	if err != nil {
		return err
	}

	ref := runfolder.New(path)
	s, err := buildServices(c, ref.Name())
	if err != nil {
		return err
	}
	defer s.Close()

	from := ref.Stage()
	resp := PromoteResponse{RunFolder: ref.Name(), From: string(from)}

	var result stage.Result
	switch from {
	case stage.Incoming:
		resp.To = string(stage.Analysis)
		result, err = s.engine.MoveToAnalysis(c.Context, path)
	case stage.Analysis:
		resp.To = string(stage.Outgoing)
		result, err = s.engine.MoveToOutgoing(c.Context, path)
	case stage.Outgoing:
		return cli.Exit(fmt.Sprintf("%s is already in outgoing", ref.Name()), 1)
	default:
		return cli.Exit(fmt.Sprintf("%s is not inside a lifecycle stage", path), 1)
	}
	if err != nil {
		return err
	}

	resp.Destination = result.Destination
	resp.Message = result.Message
	if result.OK {
		resp.Result = "moved"
	} else {
		resp.Result = "skipped"
	}

	if result.OK && resp.To == string(stage.Outgoing) && s.cfg.Archive.Bucket != "" {
		if err := archiveManifest(c, s, result.Destination); err != nil {
			// The move already happened; archival can be retried.
			s.logger.Warnf("archive manifest for %s: %v", ref.Name(), err)
		} else {
			resp.Archived = true
		}
	}

	return r.Render(resp)
}

func archiveManifest(c *cli.Context, s *services, path string) error {
	m, err := archive.BuildManifest(path)
	if err != nil {
		return err
	}
	u, err := archive.NewUploader(c.Context, s.cfg.Archive)
	if err != nil {
		return err
	}
	return u.UploadManifest(c.Context, m)
}
