package render

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scriptvid/scriptvid/internal/config"
	"github.com/scriptvid/scriptvid/internal/timeline"
)

func TestExportRejectsUnsupportedFormat(t *testing.T) {
	e := NewExporter(false)
	tl := &timeline.Timeline{
		Resolution: config.Resolution{Width: 1920, Height: 1080},
		Layers:     []timeline.Layer{{Kind: timeline.LayerBackground, Color: "white", Duration: 3}},
	}

	for _, path := range []string{"out.gif", "out.txt", "out"} {
		err := e.Export(context.Background(), tl, path, 24)
		var formatErr *ExportFormatError
		require.ErrorAs(t, err, &formatErr, path)
		assert.Equal(t, path, formatErr.Path)
	}
}

func TestExportFormatErrorMessage(t *testing.T) {
	err := &ExportFormatError{Path: "out.gif"}
	assert.Contains(t, err.Error(), ".gif")
	assert.Contains(t, err.Error(), ".mp4")
}
