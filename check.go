package spritehd

import "fmt"

// Check returns every source image of the target whose width or height is
// odd, and so cannot be halved exactly for the standard density sheet.
func (s *SpriteHD) Check(t Target) ([]OddImage, error) {
	o, err := Resolve(Options{}, t.Options)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", t.Name, err)
	}

	files, err := sources(t, o)
	if err != nil {
		return nil, err
	}

	var odd []OddImage
	for _, file := range files {
		i, err := checkSize(file)
		if err != nil {
			return nil, err
		}
		if i != nil {
			s.logger.Println(i)
			odd = append(odd, *i)
		}
	}

	return odd, nil
}
