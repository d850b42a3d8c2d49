package main

import (
	"fmt"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"conspect-web/internal/client"
	"conspect-web/internal/upload"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var pages int
	var notes string
	var output string

	cmd := &cobra.Command{
		Use:   "upload <audio-file>",
		Short: "Upload a recording and save the generated notes as PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pages < 1 {
				return fmt.Errorf("--pages must be at least 1")
			}

			file, err := client.ValidateFile(args[0])
			if err != nil {
				return err
			}

			c, err := ctx.newClient()
			if err != nil {
				return err
			}

			bar := newProgressDisplay(cmd.ErrOrStderr(), file.Name)
			result, err := c.Upload(cmd.Context(), file.Path, upload.Params{
				Pages: strconv.Itoa(pages),
				Notes: notes,
			}, bar.Update)
			bar.Finish(err)
			if err != nil {
				return err
			}

			saved, written, err := client.SavePDF(result, output)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), renderTable(
				[]string{"Audio", "Type", "Size", "Pages", "PDF", "Saved to"},
				[][]string{{
					result.Filename,
					result.Type,
					humanize.IBytes(uint64(result.Size)),
					strconv.Itoa(pages),
					humanize.IBytes(uint64(written)),
					saved,
				}},
				[]columnAlignment{alignLeft, alignLeft, alignRight, alignRight, alignRight, alignLeft},
			))
			return nil
		},
	}

	cmd.Flags().IntVarP(&pages, "pages", "p", 1, "Target length of the notes in pages")
	cmd.Flags().StringVarP(&notes, "notes", "n", "", "Extra instructions for the summary")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Where to save the PDF (file or directory, default ./"+upload.DefaultFilename+")")

	return cmd
}
