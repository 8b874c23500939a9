package serverlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
)

// Largest server list accepted from the network.
const maxListSize = 1 << 20

var (
	ErrBadStatus   = errors.New("serverlist: unexpected response status")
	ErrInvalidList = errors.New("serverlist: downloaded server list is invalid")
)

// Download fetches a server list from url and writes it to dest. An empty
// body, or one starting with '=' (what the hosting service returns instead
// of an error page), is rejected and dest is left alone.
func Download(ctx context.Context, client *http.Client, url, dest string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("error building request for %s: %w", url, err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("error downloading %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusFound {
		return fmt.Errorf("%w: %s", ErrBadStatus, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxListSize))
	if err != nil {
		return fmt.Errorf("error reading %s: %w", url, err)
	}
	if len(body) == 0 || body[0] == '=' {
		return ErrInvalidList
	}

	if err := os.WriteFile(dest, body, 0644); err != nil {
		return fmt.Errorf("error writing %s: %w", dest, err)
	}
	return nil
}
