package colorkey

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chaos-io/spritekey/util"
)

func writePNG(t *testing.T, path string, img image.Image) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))
}

func readNRGBA(t *testing.T, path string) *image.NRGBA {
	t.Helper()

	img, err := util.OpenImage(path)
	require.NoError(t, err)
	return toNRGBA(img)
}

func sprite() *image.NRGBA {
	return row(
		color.NRGBA{R: 5, G: 5, B: 5, A: 255},
		color.NRGBA{R: 255, G: 255, B: 255, A: 255},
		color.NRGBA{R: 100, G: 150, B: 200, A: 255},
		color.NRGBA{R: 100, G: 150, B: 200, A: 90},
	)
}

func TestProcess(t *testing.T) {
	t.Parallel()

	tests := []struct {
		mode Mode
		want []color.NRGBA
	}{
		{
			mode: Black,
			want: []color.NRGBA{transparent, transparent, {R: 100, G: 150, B: 200, A: 255}, {R: 100, G: 150, B: 200, A: 90}},
		},
		{
			mode: White,
			want: []color.NRGBA{{R: 5, G: 5, B: 5, A: 255}, transparent, {R: 100, G: 150, B: 200, A: 255}, {R: 100, G: 150, B: 200, A: 90}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.mode.String(), func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "sprite.png")
			writePNG(t, path, sprite())

			res, err := Process(path, tt.mode)
			require.NoError(t, err)
			assert.Equal(t, path, res.Path)
			assert.Equal(t, tt.mode, res.Mode)
			assert.Equal(t, 4, res.Stats.Pixels)
			assert.True(t, res.HadAlpha)

			if diff := cmp.Diff(tt.want, pixels(readNRGBA(t, path))); diff != "" {
				t.Errorf("Process() mismatch (-want +got):\n%s", diff)
			}

			before, err := os.ReadFile(path)
			require.NoError(t, err)
			_, err = Process(path, tt.mode)
			require.NoError(t, err)
			after, err := os.ReadFile(path)
			require.NoError(t, err)
			assert.Equal(t, before, after, "second pass must not change the file")
		})
	}
}

func TestProcess_JPEGPathGetsPNG(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "arrow.jpg")
	src := image.NewRGBA(image.Rect(0, 0, 8, 8))
	for i := range src.Pix {
		src.Pix[i] = 255
	}
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, src, &jpeg.Options{Quality: 100}))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	res, err := Process(path, White)
	require.NoError(t, err)
	assert.Equal(t, 64, res.Stats.Erased)
	assert.False(t, res.HadAlpha)
	assert.True(t, res.Stats.Opaque.Empty())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Equal(t, "png", format)
}

func TestProcess_NotFound(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "missing.png")
	_, err := Process(path, Black)
	require.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, err, fs.ErrNotExist)

	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)

	_, statErr := os.Stat(path)
	assert.ErrorIs(t, statErr, fs.ErrNotExist, "no file may be created")
}

func TestProcess_DecodeError(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "broken.png")
	garbage := []byte("this is not an image")
	require.NoError(t, os.WriteFile(path, garbage, 0o644))

	_, err := Process(path, Black)
	require.ErrorIs(t, err, ErrDecode)
	assert.NotErrorIs(t, err, ErrIO)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, garbage, data, "file is left untouched on decode failure")
}

func TestProcess_UnknownMode(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sprite.png")
	writePNG(t, path, sprite())
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Process(path, Mode(42))
	require.ErrorIs(t, err, ErrUnknownMode)
	var pe *PathError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, path, pe.Path)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestProcess_UnknownModeMissingFile(t *testing.T) {
	t.Parallel()

	_, err := Process(filepath.Join(t.TempDir(), "missing.png"), Mode(42))
	require.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrUnknownMode)
}

func TestProcess_SaveError(t *testing.T) {
	t.Parallel()

	if os.Geteuid() == 0 {
		t.Skip("root ignores file permissions")
	}

	path := filepath.Join(t.TempDir(), "locked.png")
	writePNG(t, path, sprite())
	require.NoError(t, os.Chmod(path, 0o444))
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	_, err = Process(path, Black)
	require.ErrorIs(t, err, ErrIO)
	assert.ErrorIs(t, err, fs.ErrPermission)
	assert.NotErrorIs(t, err, ErrDecode)

	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)

	var out bytes.Buffer
	(&Reporter{Out: &out}).Process(path, Black)
	assert.Equal(t, "Error processing "+path+": open "+path+": permission denied\n", out.String())
}

func TestProcess_StatError(t *testing.T) {
	t.Parallel()

	parent := filepath.Join(t.TempDir(), "sheet.png")
	writePNG(t, parent, sprite())
	path := filepath.Join(parent, "arrow.png")

	_, err := Process(path, White)
	require.ErrorIs(t, err, ErrIO)
	assert.NotErrorIs(t, err, ErrNotFound)

	var out bytes.Buffer
	(&Reporter{Out: &out}).Process(path, White)
	assert.True(t, strings.HasPrefix(out.String(), "Error processing "+path+": "), out.String())
	assert.Contains(t, out.String(), "not a directory")
}

func TestProcess_Directory(t *testing.T) {
	t.Parallel()

	_, err := Process(t.TempDir(), White)
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestReporter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	good := filepath.Join(dir, "skeleton_archer.png")
	writePNG(t, good, sprite())
	broken := filepath.Join(dir, "arrow.png")
	require.NoError(t, os.WriteFile(broken, []byte("nope"), 0o644))
	missing := filepath.Join(dir, "sandbag.png")

	var out bytes.Buffer
	r := &Reporter{Out: &out}
	r.Process(missing, Black)
	r.Process(broken, White)
	r.Process(good, Black)
	r.Process(good, Mode(0))

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 4)
	assert.Equal(t, "File not found: "+missing, lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "Error processing "+broken+": "), lines[1])
	assert.Contains(t, lines[1], image.ErrFormat.Error())
	assert.Equal(t, "Successfully processed "+good+" (Mode: black)", lines[2])
	assert.Equal(t, "Error processing "+good+": unknown mode: Mode(0)", lines[3])
}
