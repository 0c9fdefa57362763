// Copyright (c) 2021 Silvano DAL ZILIO
//
// MIT License

package bdd

import "math/big"

// Prime-sized hash tables scatter better than power-of-two ones when the
// hash function itself is weak; kept from the teacher library's primes.go.

func hasFactor(src int, n int) bool {
	return src != n && src%n == 0
}

func hasEasyFactors(src int) bool {
	return hasFactor(src, 3) || hasFactor(src, 5) || hasFactor(src, 7) || hasFactor(src, 11) || hasFactor(src, 13)
}

// primeGte returns the smallest prime number greater than or equal to src.
func primeGte(src int) int {
	if src%2 == 0 {
		src++
	}
	for {
		if hasEasyFactors(src) {
			src = src + 2
			continue
		}
		// ProbablyPrime is 100% accurate for inputs less than 2^64.
		if big.NewInt(int64(src)).ProbablyPrime(0) {
			return src
		}
		src = src + 2
	}
}
