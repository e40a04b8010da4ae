package ui

import (
	"io"
	"strings"

	"github.com/noborus/ov/oviewer"
)

// historyPager shows the activity log in ov. It satisfies tea.ExecCommand so
// Bubble Tea releases the terminal while it runs.
type historyPager struct {
	content string
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

func newHistoryPager(content string) *historyPager {
	return &historyPager{content: content}
}

func (p *historyPager) Run() error {
	root, err := oviewer.NewRoot(strings.NewReader(p.content))
	if err != nil {
		return err
	}

	// Leave our screen alone when ov exits
	config := oviewer.NewConfig()
	config.IsWriteOriginal = false
	root.SetConfig(config)

	return root.Run()
}

func (p *historyPager) SetStdin(r io.Reader)  { p.stdin = r }
func (p *historyPager) SetStdout(w io.Writer) { p.stdout = w }
func (p *historyPager) SetStderr(w io.Writer) { p.stderr = w }
