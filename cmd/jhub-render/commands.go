package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/export"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/render"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/sizeguard"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/syncctl"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/tiptap"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editor/validation"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/editormetrics"
	"github.com/koda-shigekuni/OJT-Diagnosis-Test/internal/jhub/utils"
)

const excerptLength = 200

func newHTMLCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "html [file]",
		Short: "Render document to HTML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}

			r, release, err := opts.newRenderer(cmd.Context(), doc)
			if err != nil {
				return err
			}
			defer release()

			_, err = fmt.Fprintln(cmd.OutOrStdout(), r.HTML(doc))
			return err
		},
	}
}

func newMarkdownCmd(_ *options) *cobra.Command {
	return &cobra.Command{
		Use:   "markdown [file]",
		Short: "Export document to Markdown",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			editormetrics.Renders.WithLabelValues("markdown").Inc()
			if err := export.Markdown(doc, cmd.OutOrStdout()); err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout())
			return err
		},
	}
}

func newStatsCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "stats [file]",
		Short: "Print character count, reading time and excerpt",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := loadDocument(cmd, args)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			cfg := opts.cfg.Editor

			chars := doc.CharCount()
			fmt.Fprintf(out, "characters: %d\n", chars)
			if cfg.MaxChars > 0 {
				fmt.Fprintf(out, "limit: %d (remaining %d)\n", cfg.MaxChars, sizeguard.New(cfg.MaxChars).Remaining(doc))
			}
			fmt.Fprintf(out, "reading time: %d min\n", syncctl.ReadingMinutes(chars, cfg.ReadingCharsPerMin))
			fmt.Fprintf(out, "blocks: %d\n", len(doc.Blocks()))

			verr := validation.Validate(doc, opts.limits())
			if verr == nil {
				fmt.Fprintln(out, "valid: yes")
			} else {
				fmt.Fprintf(out, "valid: no (%s)\n", verr)
			}

			// для превью медиа не нужны, изображения заменяются пометками
			excerpt := utils.HtmlToText(render.New(render.WithSanitize(false)).HTML(doc), excerptLength)
			_, err = fmt.Fprintf(out, "excerpt: %s\n", excerpt)
			return err
		},
	}
}

func newValidateCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [file]",
		Short: "Check document structure and content limits",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			raw, err := readInput(cmd, args)
			if err != nil {
				return fmt.Errorf("read document: %w", err)
			}
			if err := validation.ValidateJSON(raw); err != nil {
				return fmt.Errorf("document structure: %w", err)
			}

			doc, err := tiptap.ParseBytes(raw)
			if err != nil {
				return fmt.Errorf("parse document: %w", err)
			}
			if err := validation.Validate(doc, opts.limits()); err != nil {
				var errs validation.Errors
				if errors.As(err, &errs) {
					for _, fe := range errs {
						fmt.Fprintf(cmd.ErrOrStderr(), "%s: %s\n", fe.Code, fe.Message)
					}
				}
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), "ok")
			return err
		},
	}
}

func (o *options) limits() validation.Limits {
	limits := validation.DefaultLimits()
	limits.MaxChars = o.cfg.Editor.MaxChars
	limits.MaxImageBytes = o.cfg.MaxImageBytes
	return limits
}
