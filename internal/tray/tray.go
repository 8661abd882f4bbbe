// Package tray provides a system tray interface for the mudra spelling engine.
package tray

import (
	"fmt"
	"sync"

	"github.com/getlantern/systray"

	"github.com/ayusman/mudra/internal/engine"
)

// maxSentenceTitle is the longest sentence tail shown in the menu.
const maxSentenceTitle = 32

// CommandSink accepts commands for the pipeline without blocking.
type CommandSink interface {
	Send(cmd engine.Command) bool
}

// action is a menu item that sends a command when clicked.
type action struct {
	title   string
	tooltip string
	command engine.Command
}

var actions = []action{
	{"Space", "Append a space", engine.CommandSpace},
	{"Delete Last", "Remove the last character", engine.CommandBackspace},
	{"Clear Sentence", "Clear the sentence", engine.CommandReset},
	{"Export Sentence", "Write the sentence to a text file", engine.CommandExportText},
	{"Export Letter Log", "Write accepted letters to a CSV file", engine.CommandExportLog},
	{"Faster", "Shorten the delay between letters", engine.CommandFaster},
	{"Slower", "Lengthen the delay between letters", engine.CommandSlower},
}

// Tray is the system tray application. It renders engine snapshots into
// its menu and sends menu clicks to the pipeline.
type Tray struct {
	sink   CommandSink
	onQuit func()
	url    string

	mu   sync.RWMutex
	last state

	// Menu items stored for later updates
	menuLetter   menuItem
	menuSentence menuItem
	menuDelay    menuItem
	menuSpeech   menuItem
}

// menuItem is the part of *systray.MenuItem that Render updates.
type menuItem interface {
	SetTitle(title string)
	Enable()
	Disable()
	Check()
	Uncheck()
}

// state is the part of a snapshot the menu shows.
type state struct {
	letter          string
	sentence        string
	delay           string
	speechEnabled   bool
	speechAvailable bool
}

// New creates a Tray that sends commands to sink. url, when set, is shown
// as the address of the local HTTP API.
func New(sink CommandSink, url string) *Tray {
	return &Tray{sink: sink, url: url}
}

// OnQuit sets the callback function to be called when the quit menu item
// is clicked. It runs after the quit command is offered to the sink,
// whether or not the sink accepted it.
func (t *Tray) OnQuit(fn func()) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.onQuit = fn
}

// Run starts the system tray application.
// This function blocks until Quit is called.
func (t *Tray) Run() {
	systray.Run(t.onReady, t.onExit)
}

// Quit stops the tray loop started by Run.
func (t *Tray) Quit() {
	systray.Quit()
}

// onReady is called when the system tray is ready.
// It sets up the menu structure.
func (t *Tray) onReady() {
	systray.SetTitle("mudra")
	systray.SetTooltip("mudra finger spelling")

	letter := systray.AddMenuItem(letterTitle(""), "Current letter")
	letter.Disable()
	sentence := systray.AddMenuItem(sentenceTitle(""), "Current sentence")
	sentence.Disable()
	delay := systray.AddMenuItem(delayTitle(""), "Minimum time between letters")
	delay.Disable()
	systray.AddSeparator()

	items := make([]*systray.MenuItem, len(actions))
	for i, a := range actions {
		items[i] = systray.AddMenuItem(a.title, a.tooltip)
	}
	systray.AddSeparator()

	speech := systray.AddMenuItemCheckbox("Speak Letters", "Toggle speech", false)

	if t.url != "" {
		menuURL := systray.AddMenuItem("API: "+t.url, "Local HTTP API")
		menuURL.Disable()
	}
	systray.AddSeparator()

	menuQuit := systray.AddMenuItem("Quit", "Quit mudra")

	for i, item := range items {
		go t.forward(item, actions[i].command)
	}
	go t.forward(speech, engine.CommandToggleSpeech)

	go func() {
		<-menuQuit.ClickedCh
		t.handleQuit()
	}()

	t.attach(letter, sentence, delay, speech)
}

// attach stores the status items and paints them from the last rendered
// snapshot, which may have arrived before the menu existed.
func (t *Tray) attach(letter, sentence, delay, speech menuItem) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.menuLetter = letter
	t.menuSentence = sentence
	t.menuDelay = delay
	t.menuSpeech = speech
	t.paint(state{}, t.last, true)
}

// onExit is called when the system tray is about to exit.
func (t *Tray) onExit() {}

// forward sends cmd for every click on item.
func (t *Tray) forward(item *systray.MenuItem, cmd engine.Command) {
	for range item.ClickedCh {
		t.handleClick(cmd)
	}
}

func (t *Tray) handleClick(cmd engine.Command) {
	t.sink.Send(cmd)
}

// handleQuit sends quit to the pipeline and runs the quit callback. The
// tray itself is stopped by the caller once the pipeline is done.
func (t *Tray) handleQuit() {
	t.sink.Send(engine.CommandQuit)

	t.mu.RLock()
	callback := t.onQuit
	t.mu.RUnlock()

	if callback != nil {
		callback()
	}
}

// Render updates the menu from snap. Items are only touched when their
// text changes. Snapshots rendered before the menu exists are applied
// once it is attached.
func (t *Tray) Render(snap engine.Snapshot) {
	next := state{
		letter:          snap.Display.String(),
		sentence:        snap.Sentence,
		delay:           fmt.Sprintf("%.1fs", snap.LetterDelay.Seconds()),
		speechEnabled:   snap.SpeechEnabled,
		speechAvailable: snap.SpeechAvailable,
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	prev := t.last
	t.last = next

	if t.menuLetter == nil {
		return
	}
	t.paint(prev, next, false)
}

// paint applies the fields of next that differ from prev, or all of them
// when force is set. The caller holds t.mu.
func (t *Tray) paint(prev, next state, force bool) {
	if force || next.letter != prev.letter {
		t.menuLetter.SetTitle(letterTitle(next.letter))
	}
	if force || next.sentence != prev.sentence {
		t.menuSentence.SetTitle(sentenceTitle(next.sentence))
	}
	if force || next.delay != prev.delay {
		t.menuDelay.SetTitle(delayTitle(next.delay))
	}
	if force || next.speechAvailable != prev.speechAvailable {
		if next.speechAvailable {
			t.menuSpeech.Enable()
		} else {
			t.menuSpeech.Disable()
		}
	}
	if force || next.speechEnabled != prev.speechEnabled {
		if next.speechEnabled {
			t.menuSpeech.Check()
		} else {
			t.menuSpeech.Uncheck()
		}
	}
}

// Notify shows n as the tray tooltip.
func (t *Tray) Notify(n engine.Notice) {
	t.mu.RLock()
	ready := t.menuLetter != nil
	t.mu.RUnlock()

	if ready {
		systray.SetTooltip("mudra: " + n.Message)
	}
}

func letterTitle(letter string) string {
	if letter == "" {
		letter = "-"
	}
	return "Letter: " + letter
}

// sentenceTitle shows the end of long sentences, where new letters appear.
func sentenceTitle(sentence string) string {
	if sentence == "" {
		return "Sentence: (empty)"
	}
	if len(sentence) > maxSentenceTitle {
		sentence = "…" + sentence[len(sentence)-maxSentenceTitle:]
	}
	return "Sentence: " + sentence
}

func delayTitle(delay string) string {
	if delay == "" {
		return "Delay: -"
	}
	return "Delay: " + delay
}
