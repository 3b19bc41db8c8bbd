// Package client contains Cobra CLI commands that talk to a running faetond.
package client

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// BaseURLFunc provides the base HTTP API URL (e.g., from env or flag).
type BaseURLFunc func() string

// NewPubCommand constructs the `pub` command: publish a text event.
func NewPubCommand(baseURL BaseURLFunc) *cobra.Command {
	pubCmd := &cobra.Command{
		Use:   "pub [text]",
		Short: "Publish a text event (reads stdin when no argument)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ts, _ := cmd.Flags().GetString("ts")
			node, _ := cmd.Flags().GetString("node")

			var text string
			if len(args) == 1 {
				text = args[0]
			} else {
				b, err := io.ReadAll(os.Stdin)
				if err != nil {
					return err
				}
				text = string(b)
			}

			target := baseURL() + "/pub"
			if ts != "" {
				target += "/" + ts
			}
			if node != "" {
				target += "?node=" + url.QueryEscape(node)
			}
			resp, err := http.Post(target, "text/plain", strings.NewReader(text))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("publish failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
			}
			fmt.Print(string(body))
			return nil
		},
	}
	pubCmd.Flags().String("ts", "", "Publish at an explicit stamp (409 when taken)")
	pubCmd.Flags().String("node", "", "Tag the event with a node id")
	return pubCmd
}
