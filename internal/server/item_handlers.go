package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"
	"github.com/surplusmkt/surplus/internal/database"
	"github.com/surplusmkt/surplus/internal/model"
	"github.com/surplusmkt/surplus/internal/pubsub"
	"github.com/surplusmkt/surplus/internal/server/serializer"
	"github.com/surplusmkt/surplus/internal/server/service"
	"github.com/surplusmkt/surplus/internal/sperror"
)

// item contains all item handlers.
type item struct {
	db      database.Client
	broker  *pubsub.Broker
	service service.ItemService
}

///// List
////
//

// List returns the complete current snapshot of the items collection.
// Filtering is a client-side concern.
func (h *item) List(c echo.Context) error {
	snapshot, err := h.service.Snapshot()
	if err != nil {
		return errors.Wrap(err, "could not get items")
	}

	return c.JSON(http.StatusOK, echo.Map{
		"items": serializer.Items(snapshot),
	})
}

///// Create
////
//

// Create stores a new item for the current user.
func (h *item) Create(c echo.Context) error {
	// Filter params
	var params service.CreateItemParams
	if err := c.Bind(&params); err != nil {
		return c.JSON(http.StatusBadRequest, sperror.New("Could not get item params."))
	}

	record, err := h.service.Create(currentUser(c), params)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, serializer.Item(record))
}

///// Delete
////
//

// Delete removes one item by id.
// The client only offers the control to the owner; the operation itself does
// not re-verify ownership.
func (h *item) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Param("id")); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

///// Stream
////
//

// Stream pushes full collection snapshots over Server-Sent Events.
// The first event carries the current snapshot, then one event is sent for
// every change of the collection until the client goes away.
func (h *item) Stream(c echo.Context) error {
	snapshot, err := h.service.Snapshot()
	if err != nil {
		return errors.Wrap(err, "could not get items")
	}

	sub, unsubscribe := h.broker.Subscribe()
	defer unsubscribe()

	res := c.Response()
	res.Header().Set(echo.HeaderContentType, "text/event-stream")
	res.Header().Set(echo.HeaderCacheControl, "no-cache")
	res.Header().Set(echo.HeaderConnection, "keep-alive")
	res.WriteHeader(http.StatusOK)

	if err := writeSnapshot(res, snapshot); err != nil {
		return nil
	}

	ctx := c.Request().Context()
	for {
		select {
		case <-ctx.Done():
			return nil
		case snapshot, ok := <-sub:
			if !ok {
				return nil
			}
			if err := writeSnapshot(res, snapshot); err != nil {
				return nil
			}
		}
	}
}

func writeSnapshot(res *echo.Response, snapshot []*model.Item) error {
	payload, err := json.Marshal(echo.Map{
		"items": serializer.Items(snapshot),
	})
	if err != nil {
		return errors.Wrap(err, "could not serialize snapshot")
	}

	if _, err = fmt.Fprintf(res, "data: %s\n\n", payload); err != nil {
		return errors.Wrap(err, "could not write snapshot event")
	}
	res.Flush()
	return nil
}
