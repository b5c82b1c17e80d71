// Package prompt collects recommendation preferences interactively.
package prompt

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/TobiSchelling/PickList/internal/genre"
	"github.com/TobiSchelling/PickList/internal/recommend"
)

const welcome = "Welcome! This recommender finds books and movies for you based on what you like!\n" +
	"Answer the next few questions so we can learn what you like :)\n"

// Answers is everything the prompt sequence collected.
type Answers struct {
	Movies recommend.MoviePreferences
	Books  recommend.BookPreferences
}

// Prompter asks questions on out and reads answers from in, one per line.
// Invalid answers are reported and the question is asked again.
type Prompter struct {
	in  *bufio.Reader
	out io.Writer
}

// New creates a prompter.
func New(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{in: bufio.NewReader(in), out: out}
}

// Run asks for movie genres, preferred runtime, target rating and target
// page count, in that order. Genres are checked against known.
func (p *Prompter) Run(known genre.Set) (*Answers, error) {
	fmt.Fprint(p.out, welcome+"\n")

	genres, err := p.Genres(known)
	if err != nil {
		return nil, err
	}
	runtime, err := p.Int("Preferred movie runtime in minutes? (press Enter to skip): ")
	if err != nil {
		return nil, err
	}
	rating, err := p.Rating("Target book rating from 0 to 5? (press Enter to skip): ")
	if err != nil {
		return nil, err
	}
	pages, err := p.Int("Target book length in pages? (press Enter to skip): ")
	if err != nil {
		return nil, err
	}

	return &Answers{
		Movies: recommend.MoviePreferences{Genres: genres, PreferredRuntime: runtime},
		Books:  recommend.BookPreferences{TargetRating: rating, TargetPages: pages},
	}, nil
}

// Genres asks for a comma separated list of genres until every entry is in
// known. Entries are trimmed one by one and empty entries dropped. When known
// is empty any non-empty answer is accepted.
func (p *Prompter) Genres(known genre.Set) ([]string, error) {
	for {
		line, err := p.ask("What are your favorite movie genres? (Separate them with commas please): ")
		if err != nil {
			return nil, err
		}
		genres := SplitList(line)
		if len(genres) == 0 {
			fmt.Fprintln(p.out, "Please name at least one genre.")
			continue
		}
		if len(known) == 0 {
			return genres, nil
		}
		if unknown := known.Unknown(genres); len(unknown) > 0 {
			fmt.Fprintf(p.out, "Unknown genre(s): %s\n", strings.Join(unknown, ", "))
			fmt.Fprintf(p.out, "Available genres: %s\n", strings.Join(known.Sorted(), ", "))
			continue
		}
		return genres, nil
	}
}

// Int asks for a non-negative whole number. A blank answer means no preference.
func (p *Prompter) Int(question string) (*int, error) {
	for {
		line, err := p.ask(question)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		n, err := strconv.Atoi(line)
		if err != nil || n < 0 {
			fmt.Fprintln(p.out, "Please enter a whole number of 0 or more.")
			continue
		}
		return &n, nil
	}
}

// Rating asks for a number between 0 and MaxRating. A blank answer means no
// preference.
func (p *Prompter) Rating(question string) (*float64, error) {
	for {
		line, err := p.ask(question)
		if err != nil {
			return nil, err
		}
		if line == "" {
			return nil, nil
		}
		f, err := strconv.ParseFloat(line, 64)
		if err == nil {
			err = recommend.BookPreferences{TargetRating: &f}.Validate()
		}
		if err != nil {
			fmt.Fprintf(p.out, "Please enter a number from 0 to %g.\n", recommend.MaxRating)
			continue
		}
		return &f, nil
	}
}

// ask prints question and returns the trimmed answer. A final line without a
// newline is still returned; io.EOF is reported only when nothing was read.
func (p *Prompter) ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		return "", fmt.Errorf("reading answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// SplitList splits a comma separated answer, trimming every element and
// dropping empty ones.
func SplitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
