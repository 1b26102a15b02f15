package utils

import "time"

// SubtractMonths retorna o primeiro dia do mês situado `months` meses
// antes da data de referência
func SubtractMonths(ref time.Time, months int) time.Time {
	month := int(ref.Month()) - 1 - months
	year := ref.Year() + floorDiv(month, 12)
	month = floorMod(month, 12) + 1

	return time.Date(year, time.Month(month), 1, 0, 0, 0, 0, ref.Location())
}

// StartOfMonth retorna o primeiro dia do mês da data de referência
func StartOfMonth(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), 1, 0, 0, 0, 0, ref.Location())
}

// DateOnly trunca a data para meia-noite, preservando o fuso
func DateOnly(ref time.Time) time.Time {
	return time.Date(ref.Year(), ref.Month(), ref.Day(), 0, 0, 0, 0, ref.Location())
}

// floorDiv faz divisão inteira com arredondamento para baixo, mesmo
// para valores negativos
func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
