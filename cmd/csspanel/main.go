package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/app"
	"fyne.io/fyne/v2/canvas"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"

	"csscontexts/pkg/classify"
	"csscontexts/pkg/config"
	"csscontexts/pkg/diagram"
	"csscontexts/pkg/html"
	"csscontexts/pkg/panel"
	"csscontexts/pkg/resource"
)

func main() {
	configFile := flag.String("config", "", "config file")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: csspanel [flags] [file|url]\n\nFlags:\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	cfg, err := config.Load(config.New(), *configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	log := cfg.NewLogger()
	drawOpts := cfg.DiagramOptions()

	a := app.New()
	w := a.NewWindow("csspanel")
	w.Resize(fyne.NewSize(1100, 760))

	host := panel.NewHost()
	tree := newElementTree()
	status := widget.NewLabel("Enter a file or URL and press Enter")

	sidebar := widget.NewLabel("")
	sidebar.TextStyle = fyne.TextStyle{Monospace: true}
	diagramImg := canvas.NewImageFromImage(nil)
	diagramImg.FillMode = canvas.ImageFillContain
	diagramImg.SetMinSize(fyne.NewSize(diagram.Width/2, 240))

	var detach func()
	showPage := func(page *resource.Page) {
		c := page.Classifier(cfg.ClassifyOptions())
		pane := panel.NewPane(panel.DefaultTitle, c, panel.TextRenderer{})
		pane.OnUpdate(func(out string) {
			el := host.Selected()
			fyne.Do(func() {
				sidebar.SetText(out)
				if el != nil {
					diagramImg.Image = diagram.Draw(c, el, drawOpts)
				} else {
					diagramImg.Image = nil
				}
				diagramImg.Refresh()
			})
		})
		if detach != nil {
			detach()
		}
		detach = pane.Attach(host)
		tree.load(page.Doc)
		host.Select(nil)
	}

	tree.OnSelected = func(uid widget.TreeNodeID) {
		if n := tree.node(uid); n != nil {
			host.Select(n)
		}
	}

	loader := resource.NewLoader(log)
	loader.Viewport = cfg.CSSViewport()
	loader.Options = cfg.ClassifyOptions()
	loader.RunScripts = true

	open := func(source string) {
		status.SetText("Loading " + source + "...")
		go func() {
			page, err := loader.Load(context.Background(), source)
			fyne.Do(func() {
				if err != nil {
					status.SetText("Error: " + err.Error())
					return
				}
				showPage(page)
				status.SetText(source)
				w.SetTitle(fmt.Sprintf("csspanel - %s", source))
			})
		}()
	}

	sourceEntry := widget.NewEntry()
	sourceEntry.SetPlaceHolder("page.html or https://example.com")
	sourceEntry.OnSubmitted = open

	side := container.NewBorder(widget.NewLabel(panel.DefaultTitle), nil, nil, nil,
		container.NewVSplit(sidebar, diagramImg))
	split := container.NewHSplit(tree.Tree, side)
	split.Offset = 0.45
	content := container.NewBorder(sourceEntry, status, nil, nil, split)
	w.SetContent(content)
	w.Canvas().Focus(sourceEntry)

	if flag.NArg() > 0 {
		sourceEntry.SetText(flag.Arg(0))
		open(flag.Arg(0))
	}
	w.ShowAndRun()
}

// elementTree shows the element hierarchy of a document. Node IDs are
// slash-separated child indexes from the document element.
type elementTree struct {
	*widget.Tree
	root *html.Node
}

func newElementTree() *elementTree {
	t := &elementTree{}
	t.Tree = widget.NewTree(t.childUIDs, t.isBranch,
		func(bool) fyne.CanvasObject { return widget.NewLabel("") },
		func(uid widget.TreeNodeID, _ bool, o fyne.CanvasObject) {
			o.(*widget.Label).SetText(panel.Describe(elementOrNil(t.node(uid))))
		})
	return t
}

func (t *elementTree) load(doc *html.Document) {
	t.root = doc.DocumentElement()
	t.UnselectAll()
	t.Refresh()
	t.OpenBranch("0")
}

func (t *elementTree) node(uid widget.TreeNodeID) *html.Node {
	if t.root == nil || uid == "" {
		return nil
	}
	parts := strings.Split(uid, "/")
	if parts[0] != "0" {
		return nil
	}
	n := t.root
	for _, p := range parts[1:] {
		i, err := strconv.Atoi(p)
		if err != nil {
			return nil
		}
		kids := n.ElementChildren()
		if i < 0 || i >= len(kids) {
			return nil
		}
		n = kids[i]
	}
	return n
}

func (t *elementTree) childUIDs(uid widget.TreeNodeID) []widget.TreeNodeID {
	if uid == "" {
		if t.root == nil {
			return nil
		}
		return []widget.TreeNodeID{"0"}
	}
	n := t.node(uid)
	if n == nil {
		return nil
	}
	kids := n.ElementChildren()
	ids := make([]widget.TreeNodeID, len(kids))
	for i := range kids {
		ids[i] = uid + "/" + strconv.Itoa(i)
	}
	return ids
}

func (t *elementTree) isBranch(uid widget.TreeNodeID) bool {
	return len(t.childUIDs(uid)) > 0
}

// elementOrNil keeps a nil *html.Node from becoming a non-nil interface.
func elementOrNil(n *html.Node) classify.Element {
	if n == nil {
		return nil
	}
	return n
}
