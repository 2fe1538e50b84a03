package workerpool

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dreamware/shardflow/internal/model"
	"github.com/dreamware/shardflow/internal/transport"
)

// InitiateResult is the outcome of a PUT /v1/shard/{id} call, discriminated
// purely by status code per §4.4.
type InitiateResult int

const (
	// Accepted means the worker returned exactly 202.
	Accepted InitiateResult = iota
	// Rejected means the worker returned any status other than 202.
	Rejected
	// InitiateTransportError means the request could not be completed
	// (connection refused, timeout, DNS failure, ...).
	InitiateTransportError
)

func (r InitiateResult) String() string {
	switch r {
	case Accepted:
		return "accepted"
	case Rejected:
		return "rejected"
	case InitiateTransportError:
		return "transport_error"
	default:
		return "unknown"
	}
}

// PollResult is the outcome of a GET /v1/shard/{id} call.
type PollResult int

const (
	// InProgress means the worker returned 202: still building.
	InProgress PollResult = iota
	// Done means the worker returned 200: the shard is complete.
	Done
	// PollTransportError means the request could not be completed.
	PollTransportError
	// UnexpectedStatus means the worker returned a status that is
	// neither 202 nor 200.
	UnexpectedStatus
)

func (r PollResult) String() string {
	switch r {
	case InProgress:
		return "in_progress"
	case Done:
		return "done"
	case PollTransportError:
		return "transport_error"
	case UnexpectedStatus:
		return "unexpected_status"
	default:
		return "unknown"
	}
}

// Client is the Worker HTTP Client (C4): typed wrappers over the worker's
// two RPCs. It holds no state of its own beyond the shared HTTP transport.
type Client struct{}

// NewClient constructs a worker HTTP client.
func NewClient() *Client {
	return &Client{}
}

type initiateBody struct {
	SourceName string             `json:"sourceName"`
	Chunk      []byte             `json:"chunk"`
	Fields     []model.ImportField `json:"fields"`
}

// Initiate asks worker to begin building shardID from shardImport via
// PUT {worker.HTTPURI}/v1/shard/{shardId}.
func (c *Client) Initiate(ctx context.Context, worker model.Worker, shardID model.ShardID, shardImport model.ShardImport) InitiateResult {
	url := fmt.Sprintf("%s/v1/shard/%d", worker.HTTPURI, shardID)
	body := initiateBody{
		SourceName: shardImport.SourceName,
		Chunk:      shardImport.Chunk,
		Fields:     shardImport.Fields,
	}

	resp, err := transport.PutJSON(ctx, url, body)
	if err != nil {
		return InitiateTransportError
	}
	if resp.StatusCode == http.StatusAccepted {
		return Accepted
	}
	return Rejected
}

// Poll asks worker whether shardID has finished building via
// GET {worker.HTTPURI}/v1/shard/{shardId}.
func (c *Client) Poll(ctx context.Context, worker model.Worker, shardID model.ShardID) PollResult {
	url := fmt.Sprintf("%s/v1/shard/%d", worker.HTTPURI, shardID)

	resp, err := transport.RawGet(ctx, url)
	if err != nil {
		return PollTransportError
	}
	switch resp.StatusCode {
	case http.StatusAccepted:
		return InProgress
	case http.StatusOK:
		return Done
	default:
		return UnexpectedStatus
	}
}
