package cmd

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"winamp7/core/mirror"
	"winamp7/logger"
	"winamp7/tui"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var (
	mirrorServer   string
	mirrorPassword string
)

var mirrorCmd = &cobra.Command{
	Use:   "mirror",
	Short: "Open the pop-out mini player in the terminal",
	Long:  `Ask a running server to open its pop-out and attach to it as a terminal mirror.`,
	// The terminal belongs to the mirror, so logs only go to the file.
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		setup(false)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		base := mirrorServer
		if base == "" {
			base = cfg.PublicURL
		}
		base = strings.TrimSuffix(base, "/")

		ctx, cancel := context.WithTimeout(cmd.Context(), 15*time.Second)
		defer cancel()

		api := &ownerAPI{base: base, client: &http.Client{Timeout: 10 * time.Second}}
		if mirrorPassword != "" {
			if err := api.login(ctx, mirrorPassword); err != nil {
				return err
			}
		}
		wsURL, err := api.openPopout(ctx)
		if err != nil {
			return err
		}

		client, err := mirror.Dial(ctx, wsURL)
		if err != nil {
			return err
		}
		logger.Info("mirror attached", logger.String("server", base))

		final, err := tea.NewProgram(tui.New(client, client.Updates()), tea.WithAltScreen()).Run()
		client.Close()
		if err != nil {
			return err
		}
		if m, ok := final.(tui.Model); ok && m.Lost() {
			if cerr := client.Err(); cerr != nil {
				return fmt.Errorf("player connection lost: %w", cerr)
			}
			fmt.Println("The player closed the pop-out.")
		}
		return nil
	},
}

// ownerAPI is the small slice of the owner HTTP API the mirror needs.
type ownerAPI struct {
	base   string
	client *http.Client
	token  string
}

func (a *ownerAPI) do(ctx context.Context, method, path string, body interface{}, out interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		r = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, a.base+path, r)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if a.token != "" {
		req.Header.Set("Authorization", "Bearer "+a.token)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("%s %s: %s: %s", method, path, resp.Status, strings.TrimSpace(string(msg)))
	}
	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (a *ownerAPI) login(ctx context.Context, password string) error {
	var out struct {
		Token string `json:"token"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/auth/login", map[string]string{"password": password}, &out); err != nil {
		return fmt.Errorf("login: %w", err)
	}
	a.token = out.Token
	return nil
}

func (a *ownerAPI) openPopout(ctx context.Context) (string, error) {
	var out struct {
		WSURL string `json:"wsUrl"`
	}
	if err := a.do(ctx, http.MethodPost, "/api/popout", nil, &out); err != nil {
		return "", fmt.Errorf("open pop-out: %w", err)
	}
	if out.WSURL == "" {
		return "", fmt.Errorf("open pop-out: server returned no socket URL")
	}
	return out.WSURL, nil
}

func init() {
	rootCmd.AddCommand(mirrorCmd)

	mirrorCmd.Flags().StringVarP(&mirrorServer, "server", "s", "", "server base URL (defaults to PUBLIC_URL)")
	mirrorCmd.Flags().StringVarP(&mirrorPassword, "password", "P", "", "owner password, when the server requires one")
}
