package main

func sum_to_n(n int) int {
	s := 0
	for i := 0; i < n; i++ {
		s += i
	}
	return s
}

func main() {
	println(sum_to_n(100))
}
