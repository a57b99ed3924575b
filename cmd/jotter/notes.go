package main

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aretw0/jotter/pkg/core"
)

func printJSON(cmd *cobra.Command, v any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func printNotes(cmd *cobra.Command, notes []core.Note, asJSON bool) error {
	if asJSON {
		return printJSON(cmd, notes)
	}
	for _, n := range notes {
		line := n.ID
		if n.Title != "" {
			line += " - " + n.Title
		}
		if len(n.Tags) > 0 {
			line += " [" + strings.Join(n.Tags, ", ") + "]"
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
	return nil
}

func newListCmd(c *cli) *cobra.Command {
	var asJSON bool
	var tags []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List your notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			notes, err := svc.NotesByTags(cmd.Context(), u.ID, tags...)
			if err != nil {
				return err
			}
			return printNotes(cmd, notes, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Only notes carrying this tag (repeatable, all must match)")
	return cmd
}

func newReadCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "read <id>",
		Short: "Print a note",
		Long:  `Print a note's content, or the whole note as JSON with --json.`,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			note, ok, err := svc.GetNote(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			if !ok {
				return core.ErrNotFound.WithCause(fmt.Errorf("note %q", args[0]))
			}
			if asJSON {
				return printJSON(cmd, note)
			}
			if note.Title != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "# %s\n\n", note.Title)
			}
			fmt.Fprintln(cmd.OutOrStdout(), note.Content)
			for _, a := range note.Attachments {
				fmt.Fprintf(cmd.OutOrStdout(), "[attachment] %s (%s)\n", a.Name, a.MimeType)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

// attachment reads path into a data URL attachment, detecting its type
// from the content.
func attachment(path string) (core.Attachment, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Attachment{}, err
	}
	mime := mimetype.Detect(data).String()
	return core.Attachment{
		Name:     filepath.Base(path),
		MimeType: mime,
		Data:     "data:" + strings.ReplaceAll(mime, "; ", ";") + ";base64," + base64.StdEncoding.EncodeToString(data),
	}, nil
}

func newWriteCmd(c *cli) *cobra.Command {
	var (
		id      string
		title   string
		content string
		tags    []string
		attach  []string
	)

	cmd := &cobra.Command{
		Use:   "write",
		Short: "Create or replace a note",
		Long: `Create a note, or replace the note with the given --id. The note is
replaced as a whole: omitted fields are cleared. A new id is generated when
--id is omitted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			if id == "" {
				id = uuid.NewString()
			}

			note := core.Note{
				ID:      id,
				OwnerID: u.ID,
				Title:   title,
				Content: content,
				Tags:    tags,
			}
			for _, path := range attach {
				a, err := attachment(path)
				if err != nil {
					return fmt.Errorf("attach %s: %w", path, err)
				}
				note.Attachments = append(note.Attachments, a)
			}

			saved, err := svc.SaveNote(cmd.Context(), note)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' saved.\n", saved.ID)
			return nil
		},
	}
	cmd.Flags().StringVar(&id, "id", "", "Note ID (generated when omitted)")
	cmd.Flags().StringVar(&title, "title", "", "Note title")
	cmd.Flags().StringVar(&content, "content", "", "Note content")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag (repeatable)")
	cmd.Flags().StringArrayVar(&attach, "attach", nil, "File to attach (repeatable)")
	return cmd
}

func newDeleteCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			if err := svc.DeleteNote(cmd.Context(), u.ID, args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Note '%s' deleted.\n", args[0])
			return nil
		},
	}
}

func newSearchCmd(c *cli) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search titles, contents and tags (case-insensitive)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			notes, err := svc.SearchNotes(cmd.Context(), u.ID, args[0])
			if err != nil {
				return err
			}
			return printNotes(cmd, notes, asJSON)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newTagsCmd(c *cli) *cobra.Command {
	var pattern string

	cmd := &cobra.Command{
		Use:   "tags",
		Short: "List your tags",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, u, err := c.signedIn(cmd)
			if err != nil {
				return err
			}
			var tags []string
			if pattern != "" {
				tags, err = svc.MatchTags(cmd.Context(), u.ID, pattern)
			} else {
				tags, err = svc.AllTags(cmd.Context(), u.ID)
			}
			if err != nil {
				return err
			}
			for _, t := range tags {
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&pattern, "match", "", "Glob pattern, e.g. 'work/**'")
	return cmd
}
