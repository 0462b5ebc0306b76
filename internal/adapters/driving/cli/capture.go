package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/kridos/AITabManager/internal/core/domain"
	"github.com/kridos/AITabManager/internal/core/ports/driving"
)

var captureName string

var captureCmd = &cobra.Command{
	Use:   "capture [snapshot-file]",
	Short: "Capture a browser session snapshot",
	Long: `Capture a session from a JSON tab snapshot.

The snapshot is read from the given file, or from stdin when the argument
is "-" or omitted. Expected format:

  {
    "tabs": [
      {"url": "https://example.com", "title": "Example", "windowIndex": 0}
    ],
    "windows": [
      {"tabCount": 1, "focused": true}
    ]
  }

Enrichment (summary, tab groups, embedding) starts in the background when
auto-context is enabled; the command returns as soon as the session is saved.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCapture,
}

func init() {
	captureCmd.Flags().StringVarP(&captureName, "name", "n", "", "session name (default: timestamp)")
	rootCmd.AddCommand(captureCmd)
}

// snapshotFile is the JSON shape produced by the browser extension.
type snapshotFile struct {
	Name    string          `json:"name,omitempty"`
	Tabs    []domain.Tab    `json:"tabs"`
	Windows []domain.Window `json:"windows"`
}

func runCapture(cmd *cobra.Command, args []string) error {
	if sessionService == nil {
		return errors.New("session service not configured")
	}

	var reader io.Reader = os.Stdin
	if len(args) == 1 && args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open snapshot file: %w", err)
		}
		defer f.Close()
		reader = f
	}

	var snapshot snapshotFile
	if err := json.NewDecoder(reader).Decode(&snapshot); err != nil {
		return fmt.Errorf("failed to parse snapshot: %w", err)
	}

	name := captureName
	if name == "" {
		name = snapshot.Name
	}

	session, err := sessionService.Capture(context.Background(), driving.CaptureInput{
		Name:    name,
		Tabs:    snapshot.Tabs,
		Windows: snapshot.Windows,
	})
	if err != nil {
		return fmt.Errorf("failed to capture session: %w", err)
	}

	cmd.Printf("Captured session %s (%q, %d tabs)\n", session.ID, session.Name, len(session.Tabs))
	cmd.Println("Check enrichment progress with 'aitab sessions show " + session.ID + "'.")
	return nil
}
