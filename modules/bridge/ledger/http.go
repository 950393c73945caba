package ledger

import (
	"context"
	"encoding/json"
	"strconv"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/gaze-network/bridge-network/common"
	"github.com/gaze-network/bridge-network/pkg/httpclient"
	"github.com/gagliardetto/solana-go"
	"github.com/valyala/fasthttp"
)

var _ Service = (*HTTPService)(nil)

const defaultHTTPTimeout = 10 * time.Second

type HTTPConfig struct {
	URL     string            `mapstructure:"url"`
	Headers map[string]string `mapstructure:"headers"`
	Timeout time.Duration     `mapstructure:"timeout"` // default is 10s
	Debug   bool              `mapstructure:"debug"`
}

// HTTPService delegates mint and burn to an external token service.
type HTTPService struct {
	client *httpclient.Client
}

type ledgerRequest struct {
	Amount  string `json:"amount"`
	Account string `json:"account"`
}

func NewHTTPService(config HTTPConfig) (*HTTPService, error) {
	if config.URL == "" {
		return nil, errors.New("ledger url is required")
	}
	timeout := config.Timeout
	if timeout <= 0 {
		timeout = defaultHTTPTimeout
	}
	client, err := httpclient.New(config.URL, httpclient.Config{
		Debug:   config.Debug,
		Headers: config.Headers,
		Timeout: timeout,
	})
	if err != nil {
		return nil, errors.Wrap(err, "can't create http client")
	}
	return &HTTPService{client: client}, nil
}

func (s *HTTPService) Mint(ctx context.Context, amount uint64, recipient solana.PublicKey) error {
	return errors.Wrap(s.post(ctx, "/v1/mint", amount, recipient), "ledger mint")
}

func (s *HTTPService) Burn(ctx context.Context, amount uint64, owner solana.PublicKey) error {
	return errors.Wrap(s.post(ctx, "/v1/burn", amount, owner), "ledger burn")
}

func (s *HTTPService) post(ctx context.Context, path string, amount uint64, account solana.PublicKey) error {
	body, err := json.Marshal(ledgerRequest{
		Amount:  strconv.FormatUint(amount, 10),
		Account: account.String(),
	})
	if err != nil {
		return errors.Wrap(err, "can't marshal request body")
	}
	resp, err := s.client.Post(ctx, path, httpclient.RequestOptions{Body: body})
	if err != nil {
		return errors.Wrap(err, "request failed")
	}
	status := resp.StatusCode()
	if status >= fasthttp.StatusOK && status < fasthttp.StatusMultipleChoices {
		return nil
	}

	message := string(resp.Body())
	var errResp common.HttpResponse[any]
	if err := resp.UnmarshalBody(&errResp); err == nil && errResp.Error != nil {
		message = *errResp.Error
	}
	if status == fasthttp.StatusUnprocessableEntity {
		return errors.Wrap(ErrInsufficientBalance, message)
	}
	return errors.Errorf("unexpected status %d: %s", status, message)
}
