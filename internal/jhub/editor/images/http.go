package images

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"
)

// HTTPResolver получает изображение через API хранилища: GET {base}/api/image/base64/{token}.
type HTTPResolver struct {
	baseURL  string
	client   *retryablehttp.Client
	maxBytes int64
}

type base64Response struct {
	Base64 string `json:"base64"`
}

// NewHTTPResolver создает клиента с повторами запросов. maxBytes <= 0 снимает ограничение ответа.
func NewHTTPResolver(baseURL string, maxBytes int64) *HTTPResolver {
	cl := retryablehttp.NewClient()
	cl.RetryMax = 3
	cl.RetryWaitMin = time.Millisecond * 200
	cl.RetryWaitMax = time.Second * 2
	cl.Logger = slog.Default()

	return &HTTPResolver{
		baseURL:  strings.TrimRight(baseURL, "/"),
		client:   cl,
		maxBytes: maxBytes,
	}
}

// SetRetryMax меняет число повторов запроса.
func (h *HTTPResolver) SetRetryMax(n int) {
	h.client.RetryMax = n
}

func (h *HTTPResolver) Resolve(ctx context.Context, token string) (string, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet,
		h.baseURL+"/api/image/base64/"+url.PathEscape(token), nil)
	if err != nil {
		return "", err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := h.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return "", ErrNotFound
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image api: unexpected status %d", resp.StatusCode)
	}

	var body io.Reader = resp.Body
	if h.maxBytes > 0 {
		// base64 длиннее данных на треть, плюс запас на JSON обертку
		body = io.LimitReader(resp.Body, h.maxBytes*4/3+1024)
	}

	var res base64Response
	if err := json.NewDecoder(body).Decode(&res); err != nil {
		return "", err
	}

	src, err := ToDataURL(res.Base64, token)
	if err != nil {
		return "", err
	}
	if h.maxBytes > 0 && int64(DataURLPayloadSize(src)) > h.maxBytes {
		return "", ErrTooLarge
	}
	return src, nil
}
