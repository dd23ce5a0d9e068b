package net

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/websocket"

	"cloudoodle/internal/logging"
)

const Scheme = "cloudoodle://"

var ErrBadLink = errors.New("not a cloudoodle link")

// ShareLink returns the link a viewer opens to follow this host.
func ShareLink(host string, port int) string {
	return Scheme + net.JoinHostPort(host, strconv.Itoa(port))
}

// ParseLink extracts host:port from a share link.
func ParseLink(link string) (string, error) {
	addr, ok := strings.CutPrefix(link, Scheme)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrBadLink, link)
	}
	addr = strings.TrimSuffix(addr, "/")
	if _, _, err := net.SplitHostPort(addr); err != nil {
		return "", fmt.Errorf("%w: %v", ErrBadLink, err)
	}
	return addr, nil
}

// Subscribe connects to the hub at addr and calls fn for every announcement
// until ctx is done or the connection drops.
func Subscribe(ctx context.Context, addr string, fn func(Announcement)) error {
	log := logging.For("viewer")
	c, _, err := websocket.DefaultDialer.DialContext(ctx, "ws://"+addr+"/ws", nil)
	if err != nil {
		return fmt.Errorf("connecting to %s: %w", addr, err)
	}
	defer c.Close()
	log.Info("following share hub", "addr", addr)

	stop := context.AfterFunc(ctx, func() { c.Close() })
	defer stop()

	for {
		var a Announcement
		if err := c.ReadJSON(&a); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("reading from %s: %w", addr, err)
		}
		if a.Type != "doodle" {
			log.Debug("ignoring message", "type", a.Type)
			continue
		}
		fn(a)
	}
}

// FetchImage downloads the PNG an announcement points at.
func FetchImage(ctx context.Context, addr string, a Announcement) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, "http://"+addr+a.Image, nil)
	if err != nil {
		return nil, err
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetching %s: %s", a.Image, resp.Status)
	}
	return io.ReadAll(resp.Body)
}
