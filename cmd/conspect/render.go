package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/jedib0t/go-pretty/v6/progress"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"conspect-web/internal/client"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

func renderTable(headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

type statusKind int

const (
	statusOK statusKind = iota
	statusError
)

const (
	ansiReset = "\x1b[0m"
	ansiRed   = "\x1b[31m"
	ansiGreen = "\x1b[32m"
)

func renderStatusLine(label string, kind statusKind, message string, colorize bool) string {
	tag, color := "OK", ansiGreen
	if kind == statusError {
		tag, color = "ERROR", ansiRed
	}

	line := fmt.Sprintf("%s: [%s] %s", label, tag, message)
	if colorize {
		return color + line + ansiReset
	}
	return line
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

var stageLabels = map[client.Stage]string{
	client.StagePreparing:  "Preparing",
	client.StageUploading:  "Uploading",
	client.StageProcessing: "Transcribing and summarizing",
	client.StageDecoding:   "Reading PDF",
	client.StageDone:       "Done",
}

// progressDisplay draws a bar on terminals and prints one line per stage everywhere else.
type progressDisplay struct {
	out       io.Writer
	name      string
	writer    progress.Writer
	tracker   *progress.Tracker
	lastStage client.Stage
}

func newProgressDisplay(out io.Writer, name string) *progressDisplay {
	d := &progressDisplay{out: out, name: name}
	if !shouldColorize(out) {
		return d
	}

	pw := progress.NewWriter()
	pw.SetOutputWriter(out)
	pw.SetAutoStop(false)
	pw.SetTrackerLength(30)
	pw.SetUpdateFrequency(100 * time.Millisecond)
	pw.SetStyle(progress.StyleDefault)
	pw.Style().Visibility.ETA = false
	pw.Style().Visibility.Speed = false

	d.tracker = &progress.Tracker{
		Message: stageMessage(name, client.StagePreparing),
		Total:   100,
		Units:   progress.UnitsDefault,
	}
	pw.AppendTracker(d.tracker)
	d.writer = pw

	go pw.Render()
	return d
}

func stageMessage(name string, stage client.Stage) string {
	return fmt.Sprintf("%s: %s", name, stageLabels[stage])
}

func (d *progressDisplay) Update(p client.Progress) {
	if d.tracker != nil {
		if p.Stage != d.lastStage {
			d.tracker.UpdateMessage(stageMessage(d.name, p.Stage))
		}
		d.tracker.SetValue(int64(p.Percent))
		d.lastStage = p.Stage
		return
	}

	if p.Stage == d.lastStage {
		return
	}
	d.lastStage = p.Stage
	fmt.Fprintf(d.out, "[%3d%%] %s\n", p.Percent, stageMessage(d.name, p.Stage))
}

// Finish stops the bar and marks it by outcome. Safe to call on a line-mode display.
func (d *progressDisplay) Finish(err error) {
	if d.writer == nil {
		if err != nil {
			fmt.Fprintf(d.out, "[fail] %s: %v\n", d.name, err)
		}
		return
	}

	if err != nil {
		d.tracker.MarkAsErrored()
	} else {
		d.tracker.MarkAsDone()
	}

	d.writer.Stop()
	for d.writer.IsRenderInProgress() {
		time.Sleep(10 * time.Millisecond)
	}
}
