// herotext previews the portfolio's typing animation in the terminal.
//
//	herotext -phrases "Backend Developer,Gopher"
//	herotext -content content/site.yaml
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/Jaysinghgautam/jay-portfolio/internal/content"
	"github.com/Jaysinghgautam/jay-portfolio/internal/tui"
	"github.com/Jaysinghgautam/jay-portfolio/internal/typing"
)

func main() {
	var (
		phrasesFlag = flag.String("phrases", "", "comma-separated phrases to cycle through")
		contentPath = flag.String("content", "content/site.yaml", "site content file to read phrases from")
		greeting    = flag.String("greeting", "Hi, I'm a", "text shown before the animated role")
	)
	flag.Parse()

	phrases, err := resolvePhrases(*phrasesFlag, *contentPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	m, err := tui.New(*greeting, phrases, typing.DefaultTimings())
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	if _, err := tea.NewProgram(m).Run(); err != nil {
		log.Fatal(err)
	}
}

func resolvePhrases(flagValue, contentPath string) ([]string, error) {
	if flagValue != "" {
		var phrases []string
		for _, p := range strings.Split(flagValue, ",") {
			if p = strings.TrimSpace(p); p != "" {
				phrases = append(phrases, p)
			}
		}
		return phrases, nil
	}
	site, err := content.Load(contentPath)
	if err != nil {
		return nil, fmt.Errorf("no -phrases given and %s could not be loaded: %w", contentPath, err)
	}
	return site.Hero.Phrases, nil
}
