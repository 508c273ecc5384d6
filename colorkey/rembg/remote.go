package rembg

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/url"
	"strings"

	"github.com/chaos-io/spritekey/colorkey"
	"github.com/chaos-io/spritekey/util"
	nhttp "github.com/chaos-io/spritekey/util/http"
)

const removePath = "/v1/remove"

// RemoteRemover 把图片上传到 keyserver 处理，返回处理后的 PNG
type RemoteRemover struct {
	baseURL string
	mode    colorkey.Mode
	cli     nhttp.IClient
}

func NewRemoteRemover(baseURL string, m colorkey.Mode) *RemoteRemover {
	return &RemoteRemover{
		baseURL: strings.TrimRight(baseURL, "/"),
		mode:    m,
		cli:     nhttp.NewHTTPClient(),
	}
}

/*
	curl -X POST "$BASE_URL/v1/remove?mode=white" \
	  -F "image=@arrow.png" -o arrow_keyed.png
*/
func (r *RemoteRemover) Remove(ctx context.Context, img image.Image) (image.Image, error) {
	if !r.mode.Valid() {
		return nil, colorkey.ErrUnknownMode
	}

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)

	part, err := writer.CreateFormFile("image", "sprite.png")
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if err := util.EncodePNG(part, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close multipart writer: %w", err)
	}

	var keyed []byte
	reqParam := &nhttp.RequestParam{
		RequestURI: r.baseURL + removePath + "?mode=" + url.QueryEscape(r.mode.String()),
		Method:     http.MethodPost,
		Header:     map[string]string{"Content-Type": writer.FormDataContentType()},
		Body:       body,
		Response:   &keyed,
	}
	if err := r.cli.DoHTTPRequest(ctx, reqParam); err != nil {
		return nil, fmt.Errorf("do request: %w", err)
	}

	slog.Debug("get the response", "bytes", len(keyed), "mode", r.mode.String())

	out, _, err := util.DecodeImage(bytes.NewReader(keyed))
	if err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}
	return out, nil
}
