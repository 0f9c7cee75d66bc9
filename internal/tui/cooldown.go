package tui

import (
	"fmt"
	"log"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type cooldownTickMsg struct {
	generation int
}

// cooldownTimer re-arms a one-second tick while running. Every Start or Stop
// bumps the generation, so ticks already in flight from an earlier run are
// rejected by Accept.
type cooldownTimer struct {
	interval   time.Duration
	generation int
	running    bool
}

func newCooldownTimer() cooldownTimer {
	return cooldownTimer{interval: time.Second}
}

func (c *cooldownTimer) Start() tea.Cmd {
	c.generation++
	c.running = true
	log.Printf("[cooldown] timer %d started", c.generation)
	return c.Next()
}

func (c *cooldownTimer) Next() tea.Cmd {
	if !c.running {
		return nil
	}
	generation := c.generation
	return tea.Tick(c.interval, func(time.Time) tea.Msg {
		return cooldownTickMsg{generation: generation}
	})
}

func (c *cooldownTimer) Stop() {
	if !c.running {
		return
	}
	log.Printf("[cooldown] timer %d stopped", c.generation)
	c.running = false
	c.generation++
}

func (c *cooldownTimer) Accept(msg cooldownTickMsg) bool {
	return c.running && msg.generation == c.generation
}

func (c *cooldownTimer) Running() bool {
	return c.running
}

func formatCooldown(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%dm %ds", seconds/60, seconds%60)
}
