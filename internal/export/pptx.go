package export

import (
	"archive/zip"
	"bytes"
	"context"
	"encoding/xml"
	"fmt"
	"strings"
	"time"

	"exegesis/internal/study"
)

// Slide geometry is in EMU on a 16:9 canvas (13.333in x 7.5in).
const (
	emuPerInch  = 914400
	slideWidth  = 12192000
	slideHeight = 6858000
)

func inch(v float64) int64 { return int64(v * emuPerInch) }

// Palette shared with the printed layouts.
const (
	colorInk    = "1C1917"
	colorStone  = "57534E"
	colorMuted  = "888888"
	colorPanel  = "F5F5F4"
	colorBody   = "44403C"
	colorAmber  = "B45309"
	colorWhite  = "FFFFFF"
	colorFooter = "AAAAAA"
	headingFont = "Merriweather"
)

type run struct {
	text   string
	size   int // hundredths of a point
	bold   bool
	italic bool
	color  string
	font   string
}

type paragraph struct {
	align  string // l, ctr, r
	bullet bool
	runs   []run
}

type shape struct {
	name       string
	x, y, w, h int64
	fill       string
	paras      []paragraph
}

type slide struct {
	shapes []shape
}

// deckFor builds the slide list for doc: a title slide, one slide per outline
// entry and, when a sermon exists, a divider followed by one slide per
// sermon point.
func deckFor(doc *study.Document) []slide {
	var deck []slide

	deck = append(deck, slide{shapes: []shape{
		textBox("Title", 1, 2, 11.33, 1.2, paragraph{align: "ctr", runs: []run{
			{text: doc.Meta.Reference, size: 4400, bold: true, color: colorInk, font: headingFont},
		}}),
		textBox("Subtitle", 1, 3.5, 11.33, 0.8, paragraph{align: "ctr", runs: []run{
			{text: "Tradução: " + string(doc.Meta.Translation), size: 2400, color: colorStone},
		}}),
	}})

	for _, s := range doc.Slides {
		bullets := make([]paragraph, 0, len(s.Bullets))
		for _, b := range s.Bullets {
			bullets = append(bullets, paragraph{bullet: true, runs: []run{{text: b, size: 1800, color: colorInk}}})
		}
		shapes := []shape{
			textBox("Title", 0.5, 0.5, 12, 0.9, paragraph{runs: []run{
				{text: s.Title, size: 2800, bold: true, color: colorInk, font: headingFont},
			}}),
			textBox("Bullets", 0.5, 1.5, 6.3, 4.5, bullets...),
		}
		if s.ImageHint != "" {
			hint := textBox("Visual", 7, 1.5, 3.3, 1.5, paragraph{runs: []run{
				{text: "Sugestão Visual: " + s.ImageHint, size: 1200, italic: true, color: colorMuted},
			}})
			hint.fill = colorPanel
			shapes = append(shapes, hint)
		}
		deck = append(deck, slide{shapes: shapes})
	}

	if doc.Sermon != nil {
		deck = append(deck, slide{shapes: []shape{
			textBox("Divider", 1, 3, 11.33, 1, paragraph{align: "ctr", runs: []run{
				{text: "Esboço de Sermão", size: 3600, color: colorInk},
			}}),
		}})
		for i, p := range doc.Sermon.Points {
			deck = append(deck, slide{shapes: []shape{
				textBox("Title", 0.5, 0.5, 12, 0.9, paragraph{runs: []run{
					{text: fmt.Sprintf("%d. %s", i+1, p.Title), size: 2800, bold: true, color: colorInk, font: headingFont},
				}}),
				textBox("Body", 0.5, 1.5, 12, 5,
					paragraph{runs: []run{
						{text: "Explicação: ", size: 1800, bold: true, color: colorBody},
						{text: p.Explanation, size: 1800, color: colorBody},
					}},
					paragraph{},
					paragraph{runs: []run{
						{text: "Aplicação: ", size: 1800, bold: true, color: colorAmber},
						{text: p.Application, size: 1800, color: colorBody},
					}},
				),
			}})
		}
	}
	return deck
}

func textBox(name string, x, y, w, h float64, paras ...paragraph) shape {
	return shape{name: name, x: inch(x), y: inch(y), w: inch(w), h: inch(h), paras: paras}
}

func esc(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

const (
	nsA = `xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"`
	nsR = `xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	nsP = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main"`

	xmlHeader = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` + "\n"

	relTypeBase = "http://schemas.openxmlformats.org/officeDocument/2006/relationships/"
	ctBase      = "application/vnd.openxmlformats-officedocument.presentationml."

	groupProps = `<p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>`
)

func writeRun(b *strings.Builder, r run) {
	b.WriteString(`<a:r><a:rPr lang="pt-BR" dirty="0"`)
	if r.size > 0 {
		fmt.Fprintf(b, ` sz="%d"`, r.size)
	}
	if r.bold {
		b.WriteString(` b="1"`)
	}
	if r.italic {
		b.WriteString(` i="1"`)
	}
	b.WriteString(`>`)
	if r.color != "" {
		fmt.Fprintf(b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, r.color)
	}
	if r.font != "" {
		fmt.Fprintf(b, `<a:latin typeface="%s"/>`, esc(r.font))
	}
	fmt.Fprintf(b, `</a:rPr><a:t>%s</a:t></a:r>`, esc(r.text))
}

func writeShape(b *strings.Builder, id int, s shape) {
	fmt.Fprintf(b, `<p:sp><p:nvSpPr><p:cNvPr id="%d" name="%s %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>`, id, esc(s.name), id)
	fmt.Fprintf(b, `<p:spPr><a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm><a:prstGeom prst="rect"><a:avLst/></a:prstGeom>`, s.x, s.y, s.w, s.h)
	if s.fill != "" {
		fmt.Fprintf(b, `<a:solidFill><a:srgbClr val="%s"/></a:solidFill>`, s.fill)
	} else {
		b.WriteString(`<a:noFill/>`)
	}
	b.WriteString(`</p:spPr><p:txBody><a:bodyPr wrap="square" rtlCol="0"><a:normAutofit/></a:bodyPr><a:lstStyle/>`)
	if len(s.paras) == 0 {
		b.WriteString(`<a:p><a:endParaRPr lang="pt-BR"/></a:p>`)
	}
	for _, p := range s.paras {
		b.WriteString(`<a:p>`)
		switch {
		case p.bullet:
			b.WriteString(`<a:pPr marL="285750" indent="-285750"><a:buFont typeface="Arial"/><a:buChar char="•"/></a:pPr>`)
		case p.align != "":
			fmt.Fprintf(b, `<a:pPr algn="%s"/>`, p.align)
		}
		for _, r := range p.runs {
			writeRun(b, r)
		}
		if len(p.runs) == 0 {
			b.WriteString(`<a:endParaRPr lang="pt-BR"/>`)
		}
		b.WriteString(`</a:p>`)
	}
	b.WriteString(`</p:txBody></p:sp>`)
}

func slideXML(s slide) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sld %s %s %s><p:cSld><p:spTree>%s`, nsA, nsR, nsP, groupProps)
	for i, sh := range s.shapes {
		writeShape(&b, i+2, sh)
	}
	b.WriteString(`</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sld>`)
	return b.String()
}

// masterXML carries the footer band every slide inherits.
func masterXML() string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	fmt.Fprintf(&b, `<p:sldMaster %s %s %s><p:cSld>`, nsA, nsR, nsP)
	fmt.Fprintf(&b, `<p:bg><p:bgPr><a:solidFill><a:srgbClr val="%s"/></a:solidFill><a:effectLst/></p:bgPr></p:bg>`, colorWhite)
	fmt.Fprintf(&b, `<p:spTree>%s`, groupProps)
	band := shape{name: "Footer", x: 0, y: inch(6.9), w: slideWidth, h: slideHeight - inch(6.9), fill: colorInk,
		paras: []paragraph{{runs: []run{{text: "Exegesis AI", size: 1200, color: colorWhite}}}}}
	writeShape(&b, 2, band)
	sig := textBox("Signature", 12.2, 6.95, 1, 0.45, paragraph{align: "r", runs: []run{{text: "Celpf", size: 1000, italic: true, color: colorFooter}}})
	writeShape(&b, 3, sig)
	b.WriteString(`</p:spTree></p:cSld>`)
	b.WriteString(`<p:clrMap bg1="lt1" tx1="dk1" bg2="lt2" tx2="dk2" accent1="accent1" accent2="accent2" accent3="accent3" accent4="accent4" accent5="accent5" accent6="accent6" hlink="hlink" folHlink="folHlink"/>`)
	b.WriteString(`<p:sldLayoutIdLst><p:sldLayoutId id="2147483649" r:id="rId1"/></p:sldLayoutIdLst>`)
	b.WriteString(`<p:txStyles><p:titleStyle><a:lvl1pPr><a:defRPr sz="2800"/></a:lvl1pPr></p:titleStyle><p:bodyStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:bodyStyle><p:otherStyle><a:lvl1pPr><a:defRPr sz="1800"/></a:lvl1pPr></p:otherStyle></p:txStyles>`)
	b.WriteString(`</p:sldMaster>`)
	return b.String()
}

func layoutXML() string {
	return xmlHeader + fmt.Sprintf(`<p:sldLayout %s %s %s type="blank" preserve="1"><p:cSld name="Blank"><p:spTree>%s</p:spTree></p:cSld><p:clrMapOvr><a:masterClrMapping/></p:clrMapOvr></p:sldLayout>`,
		nsA, nsR, nsP, groupProps)
}

func themeXML() string {
	solid := func(c string) string { return `<a:solidFill><a:srgbClr val="` + c + `"/></a:solidFill>` }
	line := `<a:ln w="9525"><a:solidFill><a:schemeClr val="phClr"/></a:solidFill></a:ln>`
	phFill := `<a:solidFill><a:schemeClr val="phClr"/></a:solidFill>`
	return xmlHeader + `<a:theme ` + nsA + ` name="Exegesis">` +
		`<a:themeElements>` +
		`<a:clrScheme name="Exegesis">` +
		`<a:dk1><a:srgbClr val="` + colorInk + `"/></a:dk1><a:lt1><a:srgbClr val="FFFFFF"/></a:lt1>` +
		`<a:dk2><a:srgbClr val="` + colorBody + `"/></a:dk2><a:lt2><a:srgbClr val="` + colorPanel + `"/></a:lt2>` +
		`<a:accent1><a:srgbClr val="D97706"/></a:accent1><a:accent2><a:srgbClr val="` + colorAmber + `"/></a:accent2>` +
		`<a:accent3><a:srgbClr val="` + colorStone + `"/></a:accent3><a:accent4><a:srgbClr val="78716C"/></a:accent4>` +
		`<a:accent5><a:srgbClr val="A8A29E"/></a:accent5><a:accent6><a:srgbClr val="92400E"/></a:accent6>` +
		`<a:hlink><a:srgbClr val="B45309"/></a:hlink><a:folHlink><a:srgbClr val="78716C"/></a:folHlink>` +
		`</a:clrScheme>` +
		`<a:fontScheme name="Exegesis">` +
		`<a:majorFont><a:latin typeface="` + headingFont + `"/><a:ea typeface=""/><a:cs typeface=""/></a:majorFont>` +
		`<a:minorFont><a:latin typeface="Calibri"/><a:ea typeface=""/><a:cs typeface=""/></a:minorFont>` +
		`</a:fontScheme>` +
		`<a:fmtScheme name="Exegesis">` +
		`<a:fillStyleLst>` + phFill + phFill + phFill + `</a:fillStyleLst>` +
		`<a:lnStyleLst>` + line + line + line + `</a:lnStyleLst>` +
		`<a:effectStyleLst><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle><a:effectStyle><a:effectLst/></a:effectStyle></a:effectStyleLst>` +
		`<a:bgFillStyleLst>` + phFill + solid("FFFFFF") + phFill + `</a:bgFillStyleLst>` +
		`</a:fmtScheme>` +
		`</a:themeElements><a:objectDefaults/><a:extraClrSchemeLst/></a:theme>`
}

func rels(entries ...[2]string) string {
	var b strings.Builder
	b.WriteString(xmlHeader)
	b.WriteString(`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">`)
	for i, e := range entries {
		fmt.Fprintf(&b, `<Relationship Id="rId%d" Type="%s" Target="%s"/>`, i+1, e[0], e[1])
	}
	b.WriteString(`</Relationships>`)
	return b.String()
}

// PPTX renders doc as a PowerPoint deck.
func PPTX(doc *study.Document) ([]byte, error) {
	deck := deckFor(doc)

	var ct strings.Builder
	ct.WriteString(xmlHeader)
	ct.WriteString(`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`)
	ct.WriteString(`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>`)
	ct.WriteString(`<Default Extension="xml" ContentType="application/xml"/>`)
	ct.WriteString(`<Override PartName="/ppt/presentation.xml" ContentType="` + ctBase + `presentation.main+xml"/>`)
	ct.WriteString(`<Override PartName="/ppt/slideMasters/slideMaster1.xml" ContentType="` + ctBase + `slideMaster+xml"/>`)
	ct.WriteString(`<Override PartName="/ppt/slideLayouts/slideLayout1.xml" ContentType="` + ctBase + `slideLayout+xml"/>`)
	ct.WriteString(`<Override PartName="/ppt/theme/theme1.xml" ContentType="application/vnd.openxmlformats-officedocument.theme+xml"/>`)
	for i := range deck {
		fmt.Fprintf(&ct, `<Override PartName="/ppt/slides/slide%d.xml" ContentType="%sslide+xml"/>`, i+1, ctBase)
	}
	ct.WriteString(`<Override PartName="/docProps/core.xml" ContentType="application/vnd.openxmlformats-package.core-properties+xml"/>`)
	ct.WriteString(`<Override PartName="/docProps/app.xml" ContentType="application/vnd.openxmlformats-officedocument.extended-properties+xml"/>`)
	ct.WriteString(`</Types>`)

	presRels := [][2]string{
		{relTypeBase + "slideMaster", "slideMasters/slideMaster1.xml"},
		{relTypeBase + "theme", "theme/theme1.xml"},
	}
	var pres strings.Builder
	pres.WriteString(xmlHeader)
	fmt.Fprintf(&pres, `<p:presentation %s %s %s saveSubsetFonts="1">`, nsA, nsR, nsP)
	pres.WriteString(`<p:sldMasterIdLst><p:sldMasterId id="2147483648" r:id="rId1"/></p:sldMasterIdLst><p:sldIdLst>`)
	for i := range deck {
		presRels = append(presRels, [2]string{relTypeBase + "slide", fmt.Sprintf("slides/slide%d.xml", i+1)})
		fmt.Fprintf(&pres, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, len(presRels))
	}
	fmt.Fprintf(&pres, `</p:sldIdLst><p:sldSz cx="%d" cy="%d"/><p:notesSz cx="6858000" cy="9144000"/></p:presentation>`, slideWidth, slideHeight)

	generated := doc.GeneratedTime()
	if generated.IsZero() {
		generated = time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	}
	core := xmlHeader + `<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/" xmlns:xsi="http://www.w3.org/2001/XMLSchema-instance">` +
		`<dc:title>Estudo: ` + esc(doc.Meta.Reference) + `</dc:title><dc:creator>Exegesis AI</dc:creator>` +
		`<dcterms:created xsi:type="dcterms:W3CDTF">` + generated.UTC().Format(time.RFC3339) + `</dcterms:created>` +
		`</cp:coreProperties>`
	app := xmlHeader + fmt.Sprintf(`<Properties xmlns="http://schemas.openxmlformats.org/officeDocument/2006/extended-properties"><Application>Exegesis</Application><Slides>%d</Slides></Properties>`, len(deck))

	parts := []struct{ name, body string }{
		{"[Content_Types].xml", ct.String()},
		{"_rels/.rels", rels(
			[2]string{relTypeBase + "officeDocument", "ppt/presentation.xml"},
			[2]string{"http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties", "docProps/core.xml"},
			[2]string{relTypeBase + "extended-properties", "docProps/app.xml"},
		)},
		{"docProps/core.xml", core},
		{"docProps/app.xml", app},
		{"ppt/presentation.xml", pres.String()},
		{"ppt/_rels/presentation.xml.rels", rels(presRels...)},
		{"ppt/slideMasters/slideMaster1.xml", masterXML()},
		{"ppt/slideMasters/_rels/slideMaster1.xml.rels", rels(
			[2]string{relTypeBase + "slideLayout", "../slideLayouts/slideLayout1.xml"},
			[2]string{relTypeBase + "theme", "../theme/theme1.xml"},
		)},
		{"ppt/slideLayouts/slideLayout1.xml", layoutXML()},
		{"ppt/slideLayouts/_rels/slideLayout1.xml.rels", rels(
			[2]string{relTypeBase + "slideMaster", "../slideMasters/slideMaster1.xml"},
		)},
		{"ppt/theme/theme1.xml", themeXML()},
	}
	for i, s := range deck {
		parts = append(parts,
			struct{ name, body string }{fmt.Sprintf("ppt/slides/slide%d.xml", i+1), slideXML(s)},
			struct{ name, body string }{fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", i+1), rels(
				[2]string{relTypeBase + "slideLayout", "../slideLayouts/slideLayout1.xml"},
			)},
		)
	}

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range parts {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: p.name, Method: zip.Deflate, Modified: generated})
		if err != nil {
			return nil, fmt.Errorf("pptx part %s: %w", p.name, err)
		}
		if _, err := w.Write([]byte(p.body)); err != nil {
			return nil, fmt.Errorf("pptx part %s: %w", p.name, err)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, fmt.Errorf("pptx: %w", err)
	}
	return buf.Bytes(), nil
}

func exportPPTX(_ context.Context, doc *study.Document) ([]byte, error) {
	return PPTX(doc)
}
