package tui

type pageLayout struct {
	windowWidth    int
	windowHeight   int
	viewportWidth  int
	viewportHeight int
	composerWidth  int
}

func newPageLayout() pageLayout {
	return pageLayout{
		viewportWidth:  80,
		viewportHeight: 12,
		composerWidth:  64,
	}
}

func (l *pageLayout) Update(width, height int) {
	l.windowWidth = width
	l.windowHeight = height
	innerWidth := width - viewportHorizontalPadding
	if innerWidth < minViewportWidth {
		innerWidth = minViewportWidth
	}
	l.viewportWidth = innerWidth
	l.composerWidth = innerWidth - sendButtonWidth
	if l.composerWidth < minComposerWidth {
		l.composerWidth = minComposerWidth
	}
	// hero, status bar, files panel, composer at full height and footer
	const chrome = 22
	l.viewportHeight = height - chrome
	if l.viewportHeight < 5 {
		l.viewportHeight = 5
	}
}

// showLogo reports whether the block logo fits the window.
func (l pageLayout) showLogo() bool {
	return l.windowWidth == 0 || l.windowWidth >= logoWidth()+2
}
