
package classifier

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Category is a named keyword group sharing one severity weight.
type Category struct {
	Name     string   `yaml:"name"`
	Weight   float64  `yaml:"weight"`
	Keywords []string `yaml:"keywords"`
}

// DefaultCategories returns a fresh copy of the built-in category set.
func DefaultCategories() []Category {
	return []Category{
		{Name: "violence", Weight: 1.5, Keywords: []string{"violence", "murder", "fight", "weapons", "blood", "death", "fatal"}},
		{Name: "adult_content", Weight: 2.0, Keywords: []string{"pornography", "adult", "sex", "nude", "naked"}},
		{Name: "drugs", Weight: 1.8, Keywords: []string{"drugs", "cocaine", "heroin", "marijuana", "opium"}},
		{Name: "discrimination", Weight: 1.7, Keywords: []string{"discrimination", "racism", "sexism", "hate"}},
		{Name: "gambling", Weight: 1.3, Keywords: []string{"gambling", "casino", "betting", "wager"}},
		{Name: "fraud", Weight: 1.6, Keywords: []string{"fraud", "hacking", "scamming", "theft", "steal"}},
	}
}

type categoryFile struct {
	Categories []Category `yaml:"categories"`
}

// LoadCategories reads a YAML category file of the form
//
//	categories:
//	  - name: violence
//	    weight: 1.5
//	    keywords: [violence, murder]
func LoadCategories(path string) ([]Category, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return ReadCategories(f)
}

func ReadCategories(r io.Reader) ([]Category, error) {
	var file categoryFile
	if err := yaml.NewDecoder(r).Decode(&file); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("categories: empty file")
		}
		return nil, fmt.Errorf("categories: %w", err)
	}
	cats := normalizeCategories(file.Categories)
	if err := validateCategories(cats); err != nil {
		return nil, err
	}
	return cats, nil
}

func normalizeCategories(in []Category) []Category {
	out := make([]Category, 0, len(in))
	for _, c := range in {
		c.Name = strings.TrimSpace(c.Name)
		kws := make([]string, 0, len(c.Keywords))
		for _, k := range c.Keywords {
			if k = strings.ToLower(strings.TrimSpace(k)); k != "" {
				kws = append(kws, k)
			}
		}
		c.Keywords = kws
		out = append(out, c)
	}
	return out
}

func validateCategories(cats []Category) error {
	if len(cats) == 0 {
		return errors.New("categories: none defined")
	}
	seen := make(map[string]struct{}, len(cats))
	for i, c := range cats {
		if c.Name == "" {
			return fmt.Errorf("categories: entry %d has no name", i)
		}
		if _, dup := seen[c.Name]; dup {
			return fmt.Errorf("categories: duplicate name %q", c.Name)
		}
		seen[c.Name] = struct{}{}
		if c.Weight <= 0 {
			return fmt.Errorf("categories: %q weight must be > 0, got %v", c.Name, c.Weight)
		}
		if len(c.Keywords) == 0 {
			return fmt.Errorf("categories: %q has no keywords", c.Name)
		}
	}
	return nil
}
