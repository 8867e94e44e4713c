package main

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"mime"
	"net/http"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"subtitleforge/handlers"
)

func newUploadCommand(ctx *commandContext) *cobra.Command {
	var (
		contentType string
		filter      string
	)

	cmd := &cobra.Command{
		Use:   "upload <path>",
		Short: "Upload a media file and start project generation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read file: %w", err)
			}

			name := filepath.Base(args[0])
			if contentType == "" {
				contentType = mime.TypeByExtension(filepath.Ext(name))
			}
			if contentType == "" {
				return fmt.Errorf("cannot guess content type of %s, pass --type", name)
			}

			body, err := json.Marshal(handlers.UploadRequest{
				FileName: name,
				FileData: base64.StdEncoding.EncodeToString(data),
				FileType: contentType,
				Filter:   filter,
			})
			if err != nil {
				return err
			}

			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodPost, ctx.url("/api/upload"), bytes.NewReader(body))
			if err != nil {
				return err
			}
			req.Header.Set("Content-Type", "application/json")

			var out handlers.UploadResponse
			if err := ctx.do(req, &out); err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Uploaded %s to %s\n", out.Key, out.URL)
			if out.JobID != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Project job %s queued\n", out.JobID)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&contentType, "type", "", "Content type of the file (guessed from the extension when empty)")
	cmd.Flags().StringVar(&filter, "filter", "", "Comma separated words; captions containing any of them are dropped")
	return cmd
}

// do sends req and decodes a JSON body into out. Non-2xx responses become
// errors carrying the server's message.
func (c *commandContext) do(req *http.Request, out interface{}) error {
	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var e handlers.ErrorResponse
		if json.NewDecoder(resp.Body).Decode(&e) == nil && e.Message != "" {
			return fmt.Errorf("%s: %s", resp.Status, e.Message)
		}
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
