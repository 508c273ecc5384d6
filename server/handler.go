package server

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/nfnt/resize"
	"github.com/segmentio/ksuid"

	"github.com/chaos-io/spritekey/colorkey"
	"github.com/chaos-io/spritekey/util"
)

const removePath = "/v1/remove"

// 保留上传文件的扩展名，其余一律按无扩展名落盘
var knownExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".bmp": true, ".tif": true, ".tiff": true, ".webp": true,
}

// handleRemove 处理 POST /v1/remove?mode=black|white&preview=N，表单字段 image
func (s *Server) handleRemove(c *gin.Context) {
	m := colorkey.Black
	if q := c.Query("mode"); q != "" {
		parsed, err := colorkey.ParseMode(q)
		if err != nil {
			abort(c, http.StatusBadRequest, err)
			return
		}
		m = parsed
	}

	preview := 0
	if q := c.Query("preview"); q != "" {
		n, err := strconv.Atoi(q)
		if err != nil || n <= 0 {
			abort(c, http.StatusBadRequest, fmt.Errorf("invalid preview %q", q))
			return
		}
		preview = n
	}

	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.MaxUploadBytes)
	fh, err := c.FormFile("image")
	if err != nil {
		if tooLarge(err) {
			abort(c, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", s.cfg.MaxUploadBytes))
			return
		}
		abort(c, http.StatusBadRequest, fmt.Errorf("read form file image: %w", err))
		return
	}

	ext := strings.ToLower(filepath.Ext(fh.Filename))
	if !knownExts[ext] {
		ext = ""
	}
	path := filepath.Join(s.cfg.WorkDir, ksuid.New().String()+ext)
	if err := c.SaveUploadedFile(fh, path); err != nil {
		abort(c, http.StatusInternalServerError, fmt.Errorf("save upload: %w", err))
		return
	}
	defer func() {
		_ = os.Remove(path)
	}()

	hdr, format, err := util.DecodeConfig(path)
	if err != nil {
		abort(c, http.StatusUnprocessableEntity, fmt.Errorf("%v: %v", colorkey.ErrDecode, err))
		return
	}
	if pixels := int64(hdr.Width) * int64(hdr.Height); pixels > s.cfg.MaxPixels {
		abort(c, http.StatusRequestEntityTooLarge,
			fmt.Errorf("%s image %dx%d exceeds %d pixels", format, hdr.Width, hdr.Height, s.cfg.MaxPixels))
		return
	}

	res, err := colorkey.Process(path, m)
	if err != nil {
		abort(c, statusOf(err), publicErr(err))
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		abort(c, http.StatusInternalServerError, fmt.Errorf("read result: %w", err))
		return
	}

	if preview > 0 {
		data, err = thumbnail(data, preview)
		if err != nil {
			abort(c, http.StatusInternalServerError, fmt.Errorf("preview: %w", err))
			return
		}
	}

	slog.Debug("removed background", "id", c.GetString(requestIDKey), "upload", fh.Filename,
		"mode", m.String(), "erased", res.Stats.Erased, "pixels", res.Stats.Pixels)

	c.Header("X-Erased-Pixels", strconv.Itoa(res.Stats.Erased))
	c.Header("X-Opaque-Bounds", res.Stats.Opaque.String())
	c.Data(http.StatusOK, "image/png", data)
}

// thumbnail 把 PNG 缩放到 size×size 以内，已经足够小时原样返回
func thumbnail(data []byte, size int) ([]byte, error) {
	img, _, err := util.DecodeImage(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return data, nil
	}

	small := resize.Thumbnail(uint(size), uint(size), img, resize.Lanczos3)
	var buf bytes.Buffer
	if err := util.EncodePNG(&buf, small); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// tooLarge multipart 解析不一定保留 MaxBytesError 的错误链
func tooLarge(err error) bool {
	var maxErr *http.MaxBytesError
	return errors.As(err, &maxErr) || strings.Contains(err.Error(), "request body too large")
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, colorkey.ErrUnknownMode):
		return http.StatusBadRequest
	case errors.Is(err, colorkey.ErrDecode):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

// publicErr 去掉工作目录路径，只保留错误类别和底层原因
func publicErr(err error) error {
	var pe *colorkey.PathError
	if errors.As(err, &pe) {
		return fmt.Errorf("%v: %v", pe.Kind, pe.Err)
	}
	return err
}

func abort(c *gin.Context, code int, err error) {
	c.AbortWithStatusJSON(code, gin.H{
		"error":      err.Error(),
		"request_id": c.GetString(requestIDKey),
	})
}
