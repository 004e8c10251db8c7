package main

func bar(n int) int {
	prod := 1
	for i := 0; i < n; i++ {
		for j := 0; j < i; j++ {
			prod += j
		}
	}
	return prod
}
