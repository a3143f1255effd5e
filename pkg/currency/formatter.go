package currency

var symbols = map[string]string{
	"USD": "$",
	"EUR": "€",
	"GBP": "£",
}

// Format renders m for people, e.g. "$5,000.00" or "AED 1,250.50".
func Format(m Money) string {
	minor := m.minor
	negative := minor < 0
	if negative {
		minor = -minor
	}

	major := addThousandsSeparator(formatInt(minor/minorPerMajor), ",")
	cents := minor % minorPerMajor
	body := major + "." + string(rune('0'+cents/10)) + string(rune('0'+cents%10))

	var result string
	if sym, ok := symbols[m.code]; ok {
		result = sym + body
	} else if m.code != "" {
		result = m.code + " " + body
	} else {
		result = body
	}

	if negative {
		result = "-" + result
	}
	return result
}

func formatInt(n int64) string {
	if n == 0 {
		return "0"
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	return string(buf[i:])
}

func addThousandsSeparator(s string, sep string) string {
	n := len(s)
	if n <= 3 {
		return s
	}

	numSeps := (n - 1) / 3
	result := make([]byte, n+numSeps)

	j := len(result) - 1
	for i := n - 1; i >= 0; i-- {
		result[j] = s[i]
		j--

		pos := n - i
		if pos%3 == 0 && i > 0 {
			result[j] = sep[0]
			j--
		}
	}

	return string(result)
}
