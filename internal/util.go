package internal

// Often we want to treat an array as a circular buffer. This gives the modular
// index given length n, but unlike the raw modulo operator, it only gives positive values
func CircularIndex(i, n int) int {
	return (i%n + n) % n
}

func indexOf(ids []int, v int) int {
	for i, id := range ids {
		if id == v {
			return i
		}
	}
	return -1
}

func reversed(ids []int) []int {
	result := make([]int, len(ids))
	for i, id := range ids {
		result[len(ids)-1-i] = id
	}
	return result
}

// Rotate a closed loop so it starts at v, and close it by repeating v at the
// end.
func rotateClosed(ids []int, v int) []int {
	start := indexOf(ids, v)
	if start < 0 {
		fatalf("vertex %d is not on loop %v", v, ids)
	}
	result := make([]int, 0, len(ids)+1)
	for offset := 0; offset < len(ids); offset++ {
		result = append(result, ids[CircularIndex(start+offset, len(ids))])
	}
	return append(result, v)
}
