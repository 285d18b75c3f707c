package formatting

// pluralize выбирает форму слова для числа: one (1, 21), few (2-4, 22-24), many
func pluralize(count int, one, few, many string) string {
	if count < 0 {
		count = -count
	}
	if count%10 == 1 && count%100 != 11 {
		return one
	}
	if count%10 >= 2 && count%10 <= 4 && (count%100 < 10 || count%100 >= 20) {
		return few
	}
	return many
}

// PluralizeAppointments возвращает правильное склонение слова "запись"
func PluralizeAppointments(count int) string {
	return pluralize(count, "запись", "записи", "записей")
}

// PluralizeSessions возвращает правильное склонение слова "сеанс"
func PluralizeSessions(count int) string {
	return pluralize(count, "сеанс", "сеанса", "сеансов")
}

// PluralizeCustomers возвращает правильное склонение слова "клиент"
func PluralizeCustomers(count int) string {
	return pluralize(count, "клиент", "клиента", "клиентов")
}
