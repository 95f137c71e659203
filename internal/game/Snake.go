package game

// Snake is an ordered list of occupied cells, head first.
type Snake struct {
	Segments []Position
}

func NewSnake(head Position) Snake {
	return Snake{Segments: []Position{head}}
}

func (s Snake) Head() Position {
	return s.Segments[0]
}

func (s Snake) Len() int {
	return len(s.Segments)
}

func (s Snake) Contains(p Position) bool {
	for _, segment := range s.Segments {
		if segment == p {
			return true
		}
	}
	return false
}

// Clone copies the segments so callers outside the loop can hold on to them.
func (s Snake) Clone() Snake {
	segments := make([]Position, len(s.Segments))
	copy(segments, s.Segments)
	return Snake{Segments: segments}
}

func (s *Snake) pushHead(p Position) {
	s.Segments = append(s.Segments, Position{})
	copy(s.Segments[1:], s.Segments[:len(s.Segments)-1])
	s.Segments[0] = p
}

func (s *Snake) dropTail() {
	s.Segments = s.Segments[:len(s.Segments)-1]
}
