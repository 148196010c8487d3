package script

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/scriptvid/scriptvid/internal/config"
	"github.com/scriptvid/scriptvid/internal/log"
)

// markupRoot is the single root element of the markup grammar. The root
// declares the resolution only; the background duration stays
// provisional and is finalized when the end directive is reached.
type markupRoot struct {
	XMLName    xml.Name
	Resolution string       `xml:"resolution,attr"`
	Children   []markupNode `xml:",any"`
}

type markupNode struct {
	XMLName  xml.Name
	Name     string `xml:"name,attr"`
	Duration string `xml:"duration,attr"`
	Path     string `xml:"path,attr"`
	Color    string `xml:"color,attr"`
	Output   string `xml:"output,attr"`
	FPS      string `xml:"fps,attr"`
	Text     string `xml:",chardata"`
}

// ParseMarkup parses the XML markup grammar. Unknown child elements are
// logged and skipped unless mode says otherwise.
func ParseMarkup(src string, mode UnknownMode) ([]Command, error) {
	var root markupRoot
	if err := xml.Unmarshal([]byte(src), &root); err != nil {
		return nil, formatErrf(0, "root", "not well-formed markup: %v", err)
	}

	res := defaultResolution()
	if root.Resolution != "" {
		r, err := parseResolution(root.Resolution)
		if err != nil {
			return nil, formatErrf(0, "root", "%v", err)
		}
		res = r
	}

	cmds := []Command{{Kind: KindStart, Provisional: true, Resolution: res}}

	for i, node := range root.Children {
		ord := i + 1
		name := strings.ToLower(node.XMLName.Local)
		text := strings.TrimSpace(node.Text)

		switch name {
		case "emotion":
			if node.Name == "" {
				return nil, formatErrf(ord, "emotion", "missing name attribute")
			}
			d, err := strconv.ParseFloat(node.Duration, 64)
			if err != nil {
				return nil, formatErrf(ord, "emotion", "duration %q is not a number", node.Duration)
			}
			cmds = append(cmds, Command{Kind: KindEmotion, Line: ord, Emotion: node.Name, Duration: d})

		case "espeech":
			if node.Name == "" {
				return nil, formatErrf(ord, "espeech", "missing emotion name attribute")
			}
			if text == "" {
				return nil, formatErrf(ord, "espeech", "missing speech text")
			}
			d, auto, err := parseDurationToken(node.Duration)
			if err != nil {
				return nil, formatErrf(ord, "espeech", "%v", err)
			}
			cmds = append(cmds, Command{Kind: KindESpeech, Line: ord, Emotion: node.Name, Duration: d, Auto: auto, Text: text})

		case "textspeech":
			if text == "" {
				return nil, formatErrf(ord, "textspeech", "missing caption text")
			}
			d, auto, err := parseDurationToken(node.Duration)
			if err != nil {
				return nil, formatErrf(ord, "textspeech", "%v", err)
			}
			cmds = append(cmds, Command{Kind: KindTextSpeech, Line: ord, Duration: d, Auto: auto, Text: text})

		case "insert":
			if node.Path == "" {
				return nil, formatErrf(ord, "insert", "missing path attribute")
			}
			cmds = append(cmds, Command{Kind: KindInsert, Line: ord, Path: node.Path})

		case "background":
			if node.Color == "" {
				return nil, formatErrf(ord, "background", "missing color attribute")
			}
			cmds = append(cmds, Command{Kind: KindBackground, Line: ord, Color: node.Color})

		case "end":
			if node.Output == "" {
				return nil, formatErrf(ord, "end", "missing output attribute")
			}
			fps, err := strconv.Atoi(node.FPS)
			if err != nil || fps <= 0 {
				return nil, formatErrf(ord, "end", "fps %q is not a positive integer", node.FPS)
			}
			cmds = append(cmds, Command{Kind: KindEnd, Line: ord, Output: node.Output, FPS: fps})

		default:
			if mode == UnknownStrict {
				return nil, formatErrf(ord, name, "unknown element")
			}
			// Markup form defaults to warn-and-skip leniency.
			if mode != UnknownIgnore {
				warnUnknown(name, ord)
			}
		}
	}

	return cmds, nil
}

func defaultResolution() config.Resolution {
	return config.Resolution{Width: config.DefaultWidth, Height: config.DefaultHeight}
}

func warnUnknown(name string, pos int) {
	log.WithComponent("script").Warn("skipping unknown directive", "directive", name, "position", pos)
}
