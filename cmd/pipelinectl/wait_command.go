package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/spf13/cobra"

	"subtitleforge/handlers"
	"subtitleforge/internal/poller"
)

func newWaitCommand(ctx *commandContext) *cobra.Command {
	var (
		timeout  time.Duration
		interval time.Duration
	)

	cmd := &cobra.Command{
		Use:   "wait <fileName>",
		Short: "Wait until the project bundle for an uploaded file is ready",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var found handlers.CheckResponse
			check := func(c context.Context) (bool, error) {
				res, err := ctx.checkBundle(c, args[0])
				if err != nil {
					return false, err
				}
				found = res
				return res.Exists, nil
			}

			attempts, err := poller.Wait(cmd.Context(), timeout, poller.Backoff{Initial: interval}, check)
			if errors.Is(err, poller.ErrTimeout) {
				return fmt.Errorf("bundle for %s not ready after %s (%d checks)", args[0], timeout, attempts)
			}
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), found.URL)
			return nil
		},
	}

	cmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "How long to wait for the bundle")
	cmd.Flags().DurationVar(&interval, "interval", time.Second, "First delay between checks; later delays double")
	return cmd
}

// checkBundle performs one readiness check. A 400 means the name can never
// succeed and stops the wait.
func (c *commandContext) checkBundle(ctx context.Context, fileName string) (handlers.CheckResponse, error) {
	var out handlers.CheckResponse

	u := c.url("/api/check-fcpxml") + "?fileName=" + url.QueryEscape(fileName)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return out, poller.Permanent(err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return out, err
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusBadRequest:
		return out, poller.Permanent(fmt.Errorf("server rejected file name %q", fileName))
	case resp.StatusCode != http.StatusOK:
		return out, fmt.Errorf("check returned %s", resp.Status)
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return out, err
	}
	return out, nil
}
