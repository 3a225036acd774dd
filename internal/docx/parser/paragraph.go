package parser

import (
	"encoding/xml"
	"io"
	"strings"
)

// Paragraph is the pipeline-internal view of one <w:p> element after run
// concatenation and text normalization. Discarded once questions are built.
type Paragraph struct {
	Text               string
	ImageRelIDs        []string
	HasUnderline       bool
	UnderlinedSegments []string
}

// Segment walks the document markup paragraph-by-paragraph, run-by-run.
// For each paragraph it concatenates run text, collects image relationship
// IDs from the three known embedding mechanisms (inline drawing blip,
// legacy VML imagedata, direct blip) and records underline emphasis at run
// granularity. Paragraphs with neither text nor images are dropped.
//
// The decoder is deliberately tolerant: word processors emit a range of
// namespace prefixes, so elements are matched by local name only.
func Segment(documentXML string) []Paragraph {
	dec := xml.NewDecoder(strings.NewReader(documentXML))

	var (
		out []Paragraph

		inParagraph bool
		inRun       bool
		inRunProps  bool
		inText      bool

		cur           Paragraph
		seenRel       map[string]bool
		text          strings.Builder
		runText       strings.Builder
		runUnderlined bool
	)

	addRel := func(rid string) {
		if rid == "" || seenRel[rid] {
			return
		}
		seenRel[rid] = true
		cur.ImageRelIDs = append(cur.ImageRelIDs, rid)
	}

	for {
		tok, err := dec.Token()
		if err == io.EOF || err != nil {
			break
		}
		switch t := tok.(type) {
		case xml.StartElement:
			switch t.Name.Local {
			case "p":
				inParagraph = true
				cur = Paragraph{}
				seenRel = map[string]bool{}
				text.Reset()
			case "r":
				if inParagraph {
					inRun = true
					runUnderlined = false
					runText.Reset()
				}
			case "rPr":
				inRunProps = inRun
			case "u":
				if inRunProps {
					runUnderlined = true
				}
			case "t":
				inText = inRun
			case "blip":
				if inParagraph {
					addRel(attrByLocal(t.Attr, "embed"))
				}
			case "imagedata":
				if inParagraph {
					rid := attrByLocal(t.Attr, "id")
					if rid == "" {
						rid = attrByLocal(t.Attr, "relid")
					}
					addRel(rid)
				}
			}
		case xml.CharData:
			if inText {
				runText.Write(t)
			}
		case xml.EndElement:
			switch t.Name.Local {
			case "t":
				inText = false
			case "rPr":
				inRunProps = false
			case "r":
				if inRun {
					if runUnderlined {
						if seg := strings.TrimSpace(runText.String()); seg != "" {
							cur.HasUnderline = true
							cur.UnderlinedSegments = append(cur.UnderlinedSegments, seg)
						}
					}
					text.WriteString(runText.String())
					inRun = false
				}
			case "p":
				if inParagraph {
					cur.Text = normalizeText(text.String())
					cleaned, letters := extractMarkdownUnderlines(cur.Text)
					if len(letters) > 0 {
						cur.Text = cleaned
						cur.HasUnderline = true
						cur.UnderlinedSegments = append(cur.UnderlinedSegments, letters...)
					}
					if cur.Text != "" || len(cur.ImageRelIDs) > 0 {
						out = append(out, cur)
					}
					inParagraph = false
				}
			}
		}
	}
	return out
}

func attrByLocal(attrs []xml.Attr, local string) string {
	for _, a := range attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}
