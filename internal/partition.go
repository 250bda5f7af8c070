package internal

// A partition assigns every island of a domain to exactly one side of a case 2
// split. The two sides are distinguished, so ({0}, {1}) and ({1}, {0}) are
// different partitions.
type Partition struct {
	Left, Right []int
}

// The largest island count we will enumerate partitions for. The partition
// space doubles with every island, and the search runs it at every pivot.
const MaxPartitionIslands = 24

// Enumerate every way to split the island indices {0..n-1} into a left and a
// right set. Partitions are grouped by the size of the left set, and within a
// group the left sets come in lexicographic order, so the enumeration order is
// stable for tie-breaking. For n == 0 there is exactly one partition, with both
// sides empty.
func EnumeratePartitions(n int) []Partition {
	if n < 0 || n > MaxPartitionIslands {
		fatalf("cannot enumerate partitions of %d islands", n)
	}
	result := make([]Partition, 0, 1<<uint(n))
	for size := 0; size <= n; size++ {
		combination := make([]int, size)
		for i := range combination {
			combination[i] = i
		}
		for {
			result = append(result, partitionFor(combination, n))
			if !nextCombination(combination, n) {
				break
			}
		}
	}
	return result
}

func partitionFor(left []int, n int) Partition {
	p := Partition{
		Left:  append([]int{}, left...),
		Right: make([]int, 0, n-len(left)),
	}
	next := 0
	for id := 0; id < n; id++ {
		if next < len(left) && left[next] == id {
			next++
			continue
		}
		p.Right = append(p.Right, id)
	}
	return p
}

// Advance a sorted combination of indices drawn from [0, n) to its
// lexicographic successor, in place. Returns false when there is none.
func nextCombination(combination []int, n int) bool {
	k := len(combination)
	i := k - 1
	for i >= 0 && combination[i] == n-k+i {
		i--
	}
	if i < 0 {
		return false
	}
	combination[i]++
	for j := i + 1; j < k; j++ {
		combination[j] = combination[j-1] + 1
	}
	return true
}

// Check that the partition covers {0..n-1} exactly once.
func (p Partition) Covers(n int) bool {
	if len(p.Left)+len(p.Right) != n {
		return false
	}
	seen := make([]bool, n)
	for _, side := range [][]int{p.Left, p.Right} {
		for _, id := range side {
			if id < 0 || id >= n || seen[id] {
				return false
			}
			seen[id] = true
		}
	}
	return true
}
