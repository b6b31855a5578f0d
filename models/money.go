package models

import (
	"math"
	"regexp"
)

// Epsilon is the absolute tolerance used when comparing summed amounts.
const Epsilon = 0.01

// float noise on top of Epsilon so that 500-499.99 still compares equal
const epsilonSlack = 1e-9

func AmountsEqual(a, b float64) bool {
	return math.Abs(a-b) <= Epsilon+epsilonSlack
}

// RoundMoney rounds to whole cents.
func RoundMoney(v float64) float64 {
	return math.Round(v*100) / 100
}

var phonePattern = regexp.MustCompile(`^\d{10}$`)

// ValidPhone accepts exactly ten digits.
func ValidPhone(phone string) bool {
	return phonePattern.MatchString(phone)
}

// Valid reports whether the customer can carry a due.
func (c Customer) Valid() bool {
	return c.Name != "" && ValidPhone(c.PhoneNumber)
}
