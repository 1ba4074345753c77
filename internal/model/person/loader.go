package person

import (
	"fmt"
	"io"
	"os"
)

// LoadFile reads the startup data file: a JSON array of person objects.
func LoadFile(path string) ([]Person, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open persons data: %w", err)
	}
	defer f.Close()

	persons, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("load persons data %s: %w", path, err)
	}
	return persons, nil
}

// Load decodes a JSON array of person objects. Every entry must carry all
// four fields; a top-level null is not an array.
func Load(r io.Reader) ([]Person, error) {
	var inputs []Input
	if err := decodeJSON(r, &inputs); err != nil {
		return nil, err
	}
	if inputs == nil {
		return nil, malformed()
	}

	persons := make([]Person, 0, len(inputs))
	for i, in := range inputs {
		p, err := in.Validate()
		if err != nil {
			return nil, fmt.Errorf("entry %d: %w", i, err)
		}
		persons = append(persons, p)
	}
	return persons, nil
}
