package client

import (
	"bufio"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// NewSubCommand constructs the `sub` command: follow the text event stream.
func NewSubCommand(baseURL BaseURLFunc) *cobra.Command {
	subCmd := &cobra.Command{
		Use:   "sub",
		Short: "Stream text events over SSE to stdout",
		RunE: func(cmd *cobra.Command, _ []string) error {
			from, _ := cmd.Flags().GetString("from")
			filter, _ := cmd.Flags().GetString("filter")

			target := baseURL() + "/sub"
			if from != "" {
				target += "/" + from
			}
			if filter != "" {
				target += "?filter=" + url.QueryEscape(filter)
			}
			req, err := http.NewRequestWithContext(cmd.Context(), http.MethodGet, target, nil)
			if err != nil {
				return err
			}
			resp, err := http.DefaultClient.Do(req)
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusOK {
				body, _ := io.ReadAll(resp.Body)
				return fmt.Errorf("subscribe failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
			}

			scanner := bufio.NewScanner(resp.Body)
			scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
			for scanner.Scan() {
				fmt.Fprintln(os.Stdout, scanner.Text())
			}
			return scanner.Err()
		},
	}
	subCmd.Flags().String("from", "", "Replay from this stamp (exclusive)")
	subCmd.Flags().String("filter", "", "CEL filter expression")
	return subCmd
}
