package ipc

import (
	"net"
	"net/rpc"
	"net/rpc/jsonrpc"
	"time"
)

// Client provides RPC access to the daemon.
type Client struct {
	conn   net.Conn
	client *rpc.Client
}

// Dial connects to the IPC server at the given socket path.
func Dial(path string) (*Client, error) {
	conn, err := net.DialTimeout("unix", path, 2*time.Second)
	if err != nil {
		return nil, err
	}
	rpcClient := rpc.NewClientWithCodec(jsonrpc.NewClientCodec(conn))
	return &Client{conn: conn, client: rpcClient}, nil
}

// Close closes the underlying connection.
func (c *Client) Close() error {
	if c.client != nil {
		_ = c.client.Close()
	}
	if c.conn != nil {
		return c.conn.Close()
	}
	return nil
}

func (c *Client) call(method string, req, resp any) error {
	return c.client.Call(serviceName+"."+method, req, resp)
}

// Submit enqueues a new run.
func (c *Client) Submit(req SubmitRequest) (*SubmitResponse, error) {
	var resp SubmitResponse
	if err := c.call("Submit", req, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Stop requests the daemon to stop processing.
func (c *Client) Stop() (*StopResponse, error) {
	var resp StopResponse
	if err := c.call("Stop", StopRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Status retrieves the daemon status.
func (c *Client) Status() (*StatusResponse, error) {
	var resp StatusResponse
	if err := c.call("Status", StatusRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunList returns runs optionally filtered by statuses.
func (c *Client) RunList(statuses []string) (*RunListResponse, error) {
	var resp RunListResponse
	if err := c.call("RunList", RunListRequest{Statuses: statuses}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunDescribe returns details for a single run.
func (c *Client) RunDescribe(id int64) (*RunDescribeResponse, error) {
	var resp RunDescribeResponse
	if err := c.call("RunDescribe", RunDescribeRequest{ID: id}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Approve resolves an awaiting run positively.
func (c *Client) Approve(id int64, note string) (*ApproveResponse, error) {
	var resp ApproveResponse
	if err := c.call("Approve", ApproveRequest{ID: id, Approved: true, Note: note}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Reject resolves an awaiting run negatively.
func (c *Client) Reject(id int64, note string) (*ApproveResponse, error) {
	var resp ApproveResponse
	if err := c.call("Approve", ApproveRequest{ID: id, Approved: false, Note: note}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunRetry retries failed or rejected runs.
func (c *Client) RunRetry(ids []int64) (*RunRetryResponse, error) {
	var resp RunRetryResponse
	if err := c.call("RunRetry", RunRetryRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunRemove removes specific runs.
func (c *Client) RunRemove(ids []int64) (*RunRemoveResponse, error) {
	var resp RunRemoveResponse
	if err := c.call("RunRemove", RunRemoveRequest{IDs: ids}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunClear removes all runs.
func (c *Client) RunClear() (*RunClearResponse, error) {
	var resp RunClearResponse
	if err := c.call("RunClear", RunClearRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunClearCompleted removes finished runs.
func (c *Client) RunClearCompleted() (*RunClearCompletedResponse, error) {
	var resp RunClearCompletedResponse
	if err := c.call("RunClearCompleted", RunClearCompletedRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// RunClearFailed removes failed and rejected runs.
func (c *Client) RunClearFailed() (*RunClearFailedResponse, error) {
	var resp RunClearFailedResponse
	if err := c.call("RunClearFailed", RunClearFailedRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// QueueHealth returns run queue diagnostics.
func (c *Client) QueueHealth() (*QueueHealthResponse, error) {
	var resp QueueHealthResponse
	if err := c.call("QueueHealth", QueueHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// DatabaseHealth retrieves detailed database diagnostics.
func (c *Client) DatabaseHealth() (*DatabaseHealthResponse, error) {
	var resp DatabaseHealthResponse
	if err := c.call("DatabaseHealth", DatabaseHealthRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// TestNotification triggers a notification test via the daemon.
func (c *Client) TestNotification() (*TestNotificationResponse, error) {
	var resp TestNotificationResponse
	if err := c.call("TestNotification", TestNotificationRequest{}, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
