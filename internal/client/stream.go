package client

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/model"
)

// StreamItems subscribes to the live item collection stream and calls
// onSnapshot for every event. Each event carries the complete current
// snapshot; the first one arrives right after subscribing.
// It blocks until the context is canceled or the connection breaks.
func StreamItems(ctx context.Context, c Client, onSnapshot func([]*model.Item)) error {
	stream, ok := c.(*client)
	if !ok {
		return errors.New("unsupported client implementation")
	}

	u, err := url.Parse(stream.endpoint)
	if err != nil {
		return errors.Wrap(err, "could not parse endpoint")
	}
	u.Path = path.Join(u.Path, "/items/stream")

	//
	// Build request
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return errors.Wrap(err, "could not build request")
	}
	req.Header.Add("Accept", "text/event-stream")
	req.Header.Add("Authorization", fmt.Sprintf("Bearer %s", stream.session.AccessToken))

	//
	// Perform request
	res, err := stream.http.Do(req)
	if err != nil {
		return errors.Wrap(err, "could not perform request")
	}
	defer res.Body.Close()

	if res.StatusCode >= 400 {
		return parseAPIError(res.Body, res.StatusCode)
	}

	//
	// Consume events
	scanner := bufio.NewScanner(res.Body)
	scanner.Buffer(make([]byte, 0, 64<<10), 4<<20)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, "data: ") {
			continue
		}

		var snapshot struct {
			Items []*model.Item `json:"items"`
		}
		if err := json.Unmarshal([]byte(strings.TrimPrefix(line, "data: ")), &snapshot); err != nil {
			return errors.Wrap(err, "could not parse snapshot event")
		}
		onSnapshot(snapshot.Items)
	}

	if ctx.Err() != nil {
		return nil
	}
	if err := scanner.Err(); err != nil {
		return errors.Wrap(err, "stream interrupted")
	}
	return errors.New("stream closed by server")
}
