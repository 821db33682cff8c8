package monitor

import (
	"context"
	"fmt"
	"strings"

	ui "github.com/gizak/termui/v3"
	widgets "github.com/gizak/termui/v3/widgets"
	"github.com/pkg/errors"

	"github.com/handegar/csyncpio/base"
	"github.com/handegar/csyncpio/disasm"
	"github.com/handegar/csyncpio/settings"
	"github.com/handegar/csyncpio/utils"
)

var boxTitleStyle = ui.NewStyle(ui.ColorRed, ui.ColorBlue)

// Dashboard is a full screen termui view of the running program
type Dashboard struct {
	opCodes []base.Op
	listing disasm.Listing

	codeView  *widgets.Paragraph
	stateView *widgets.Paragraph
	pinView   *widgets.Paragraph
	helpLine  *widgets.Paragraph
}

func NewDashboard(opCodes []base.Op, l disasm.Listing) *Dashboard {
	return &Dashboard{opCodes: opCodes, listing: l}
}

// Init takes over the terminal
func (d *Dashboard) Init() error {
	if err := ui.Init(); err != nil {
		return errors.Wrap(err, "termui")
	}

	d.codeView = widgets.NewParagraph()
	d.codeView.Title = fmt.Sprintf("  Program (%d words @ %d)  ", len(d.opCodes), d.listing.Origin)
	d.codeView.TitleStyle = boxTitleStyle

	d.stateView = widgets.NewParagraph()
	d.stateView.Title = "  State machine  "
	d.stateView.TitleStyle = boxTitleStyle

	d.pinView = widgets.NewParagraph()
	d.pinView.Title = "  Pins  "
	d.pinView.TitleStyle = boxTitleStyle

	d.helpLine = widgets.NewParagraph()
	d.helpLine.Border = false
	d.helpLine.TextStyle = boxTitleStyle
	d.helpLine.Text = fmt.Sprintf("[ESC/q:](fg:black) Quit [|](fg:white,bg:black) csyncpio v%s", settings.Version)

	d.layout()
	return nil
}

func (d *Dashboard) layout() {
	width, height := ui.TerminalDimensions()
	center := max(width/2, 40)
	d.codeView.SetRect(0, 0, center, height-1)
	d.stateView.SetRect(center, 0, width, (height-1)/2)
	d.pinView.SetRect(center, (height-1)/2, width, height-1)
	d.helpLine.SetRect(0, height-1, width, height)
}

func (d *Dashboard) Update(s Snapshot) error {
	d.codeView.Text = generateCodeListing(d.opCodes, d.listing, s.Status.Index)
	d.stateView.Text = stateText(s)
	d.pinView.Text = pinText(s)
	ui.Render(d.codeView, d.stateView, d.pinView, d.helpLine)
	return nil
}

func (d *Dashboard) Close() error {
	ui.Close()
	return nil
}

// HandleEvents calls 'quit' when the user asks to leave. Returns when ctx
// is done.
func (d *Dashboard) HandleEvents(ctx context.Context, quit func()) {
	events := ui.PollEvents()
	for {
		select {
		case <-ctx.Done():
			return
		case e := <-events:
			switch e.ID {
			case "q", "<C-c>", "<Escape>":
				quit()
				return
			case "<Resize>":
				d.layout()
				ui.Clear()
			}
		}
	}
}

// The program with the current instruction highlighted and the wrap
// markers in place
func generateCodeListing(opCodes []base.Op, l disasm.Listing, index int) string {
	var lines []string
	for i, op := range opCodes {
		if uint8(i) == l.WrapTarget {
			lines = append(lines, "[.wrap_target](fg:cyan)")
		}

		codeColor := "fg:white"
		numColor := "fg:yellow"
		if i == index { // Cursor line?
			codeColor = "fg:red,bg:white,mod:bold"
			numColor = "fg:black,bg:white,mod:bold"
		}
		lines = append(lines, fmt.Sprintf("[%3d](%s)[  %s  ](%s)",
			int(l.Origin)+i, numColor, disasm.OpCodeToString(op, l), codeColor))

		if uint8(i) == l.Wrap {
			lines = append(lines, "[.wrap](fg:cyan)")
		}
	}
	return strings.Join(lines, "\n")
}

func stateText(s Snapshot) string {
	return fmt.Sprintf("[SM:](fg:cyan) %d\n[PC:](fg:cyan) %d (index %d)\n"+
		"[Time constant:](fg:cyan) %d\n[Cycles:](fg:cyan) %d",
		s.Status.Unit, s.Status.PC, s.Status.Index, s.TimeConstant, s.Cycles)
}

func pinMarkup(name string, level bool) string {
	levelColor := "fg:red"
	if level {
		levelColor = "fg:green"
	}
	return fmt.Sprintf("[%s:](fg:cyan) [%s](%s)", name, utils.Level(level), levelColor)
}

func pinText(s Snapshot) string {
	return strings.Join([]string{
		pinMarkup("HSYNC", s.Status.HSync),
		pinMarkup("VSYNC", s.Status.VSync),
		pinMarkup("CSYNC", s.Status.CSync),
	}, "\n")
}
