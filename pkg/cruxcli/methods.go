package cruxcli

import (
	"encoding/json"

	"github.com/cruxd/cruxd/common"
)

func invoke[T any](c *Client, method common.UpdateType, message any) (*T, error) {
	resp, err := c.invoke(method, message)
	if err != nil {
		return nil, err
	}
	var d T
	return &d, json.Unmarshal(resp, &d)
}

// Register registers a component with the daemon. The public-key hash
// travels hex-encoded; the daemon derives the component id from it.
func (c *Client) Register(p *common.RegisterParams) (*common.RegisterResponse, error) {
	return invoke[common.RegisterResponse](c, common.UPDATE_REGISTER, p)
}

// CheckNow asks the daemon to check one component at its next
// opportunity. Rejected when the component is mid-cycle or was checked
// too recently.
func (c *Client) CheckNow(componentID string) (*common.CheckNowResponse, error) {
	return invoke[common.CheckNowResponse](c, common.UPDATE_CHECK_NOW, &common.CheckNowParams{
		ComponentId: componentID,
	})
}

// CheckAll forces a re-check of every idle component.
func (c *Client) CheckAll() (*common.CheckAllResponse, error) {
	return invoke[common.CheckAllResponse](c, common.UPDATE_CHECK_ALL, nil)
}

// UpdateSet triggers an on-demand check of a set of components as one
// batch. The response maps each id to its trigger error, empty on
// success.
func (c *Client) UpdateSet(componentIDs []string) (*common.UpdateSetResponse, error) {
	return invoke[common.UpdateSetResponse](c, common.UPDATE_UPDATE_SET, &common.UpdateSetParams{
		ComponentIds: componentIDs,
	})
}

// Status returns the current snapshot of one component.
func (c *Client) Status(componentID string) (*common.StatusResponse, error) {
	return invoke[common.StatusResponse](c, common.UPDATE_STATUS, &common.StatusParams{
		ComponentId: componentID,
	})
}

// List returns snapshots of every registered component.
func (c *Client) List() (*common.ListResponse, error) {
	return invoke[common.ListResponse](c, common.UPDATE_LIST, nil)
}

// History returns journaled cycle outcomes, newest first. An empty id
// selects all components; limit <= 0 uses the daemon default.
func (c *Client) History(componentID string, limit int) (*common.HistoryResponse, error) {
	return invoke[common.HistoryResponse](c, common.UPDATE_HISTORY, &common.HistoryParams{
		ComponentId: componentID,
		Limit:       limit,
	})
}

// Watch subscribes this connection to pushed progress events for one
// component, or all components when id is empty. Register a
// WatchingHandler and call Listen to consume the stream.
func (c *Client) Watch(componentID string, h Handler) (*common.WatchingResponse, error) {
	if h != nil {
		c.d.On(common.UPDATE_WATCHING, h)
	}
	return invoke[common.WatchingResponse](c, common.UPDATE_WATCHING, &common.InputComponentId{
		ComponentId: componentID,
	})
}

// GetDaemonVersion returns the daemon's build information.
func (c *Client) GetDaemonVersion() (*common.VersionResponse, error) {
	return invoke[common.VersionResponse](c, common.UPDATE_VERSION, nil)
}

// StopScheduling pauses the daemon's update scheduling. In-flight
// operations finish; no new cycles start.
func (c *Client) StopScheduling() error {
	_, err := c.invoke(common.UPDATE_STOP, nil)
	return err
}
