package client

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
)

// NewPNGCommand constructs the `png` command group: upload screenshots and
// list the latest one per node.
func NewPNGCommand(baseURL BaseURLFunc) *cobra.Command {
	pngCmd := &cobra.Command{Use: "png", Short: "Screenshot operations"}
	pngCmd.AddCommand(newPNGUploadCommand(baseURL), newPNGListCommand(baseURL))
	return pngCmd
}

func newPNGUploadCommand(baseURL BaseURLFunc) *cobra.Command {
	uploadCmd := &cobra.Command{
		Use:   "upload <file>",
		Short: "Upload a PNG screenshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("name")
			if name == "" {
				name = filepath.Base(args[0])
			}
			data, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			resp, err := http.Post(baseURL()+"/png/"+name, "image/png", bytes.NewReader(data))
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("upload failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
			}
			fmt.Print(string(body))
			return nil
		},
	}
	uploadCmd.Flags().String("name", "", "Stored filename (default: the file's basename)")
	return uploadCmd
}

func newPNGListCommand(baseURL BaseURLFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the latest screenshot per node",
		RunE: func(cmd *cobra.Command, _ []string) error {
			resp, err := http.Get(baseURL() + "/png")
			if err != nil {
				return err
			}
			defer resp.Body.Close()
			body, _ := io.ReadAll(resp.Body)
			if resp.StatusCode != http.StatusOK {
				return fmt.Errorf("list failed: %s: %s", resp.Status, strings.TrimSpace(string(body)))
			}
			fmt.Print(string(body))
			return nil
		},
	}
}
