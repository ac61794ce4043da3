package nlp

// Closed word classes and lexical resources for Russian tagging. Folded
// forms only; the tokenizer folds before lookup.

// prepositions covers the common Russian prepositions.
var prepositions = map[string]struct{}{
	"в": {}, "во": {}, "на": {}, "из": {}, "до": {}, "по": {}, "у": {},
	"к": {}, "ко": {}, "с": {}, "со": {}, "о": {}, "об": {}, "обо": {},
	"под": {}, "над": {}, "за": {}, "при": {}, "от": {}, "для": {},
	"про": {}, "через": {}, "между": {},
}

// locativePrepositions are the prepositions that govern a place reading of
// their nominal complement ("в Москве", "до Казани").
var locativePrepositions = map[string]struct{}{
	"в": {}, "во": {}, "на": {}, "из": {}, "до": {}, "под": {}, "у": {}, "при": {},
}

var pronouns = map[string]struct{}{
	"я": {}, "ты": {}, "он": {}, "она": {}, "оно": {}, "мы": {}, "вы": {},
	"они": {}, "мне": {}, "меня": {}, "тебе": {}, "тебя": {}, "нам": {},
	"нас": {}, "вам": {}, "вас": {}, "ему": {}, "ей": {}, "им": {}, "их": {},
	"мой": {}, "моя": {}, "твой": {}, "наш": {}, "ваш": {},
}

var particles = map[string]struct{}{
	"и": {}, "а": {}, "но": {}, "же": {}, "ли": {}, "бы": {}, "не": {},
	"ни": {}, "что": {}, "чтобы": {}, "как": {}, "когда": {}, "если": {},
	"то": {}, "вот": {}, "ну": {}, "да": {}, "нет": {},
}

// timeWords are temporal adverbs that must not surface as noun candidates.
var timeWords = map[string]struct{}{
	"сегодня": {}, "завтра": {}, "послезавтра": {}, "вчера": {},
	"сейчас": {}, "утром": {}, "днем": {}, "днём": {}, "вечером": {},
	"ночью": {}, "скоро": {}, "потом": {},
}

// verbLexicon lists frequent request verbs and greetings whose endings
// defeat the suffix heuristics (imperatives ending in -и look nominal).
var verbLexicon = map[string]struct{}{
	"скажи": {}, "подскажи": {}, "расскажи": {}, "покажи": {}, "дай": {},
	"будет": {}, "есть": {}, "хочу": {}, "узнать": {}, "привет": {},
}

// givenNames is a small list of common Russian given names for PERSON
// tagging; enough to keep people out of the location slot.
var givenNames = map[string]struct{}{
	"иван": {}, "петр": {}, "пётр": {}, "сергей": {}, "александр": {},
	"алексей": {}, "дмитрий": {}, "андрей": {}, "михаил": {}, "николай": {},
	"анна": {}, "мария": {}, "елена": {}, "ольга": {}, "наталья": {},
	"ирина": {}, "татьяна": {}, "светлана": {},
}

// cityGazetteer maps folded, punctuation-stripped nominative city names to
// their display form. Hyphens are stripped by normalization, so hyphenated
// names are keyed without them.
var cityGazetteer = map[string]string{
	"москва":          "Москва",
	"санктпетербург":  "Санкт-Петербург",
	"питер":           "Санкт-Петербург",
	"новосибирск":     "Новосибирск",
	"екатеринбург":    "Екатеринбург",
	"казань":          "Казань",
	"нижний новгород": "Нижний Новгород",
	"самара":          "Самара",
	"омск":            "Омск",
	"челябинск":       "Челябинск",
	"ростовнадону":    "Ростов-на-Дону",
	"уфа":             "Уфа",
	"красноярск":      "Красноярск",
	"пермь":           "Пермь",
	"воронеж":         "Воронеж",
	"волгоград":       "Волгоград",
	"краснодар":       "Краснодар",
	"саратов":         "Саратов",
	"тюмень":          "Тюмень",
	"тверь":           "Тверь",
	"тула":            "Тула",
	"сочи":            "Сочи",
	"владивосток":     "Владивосток",
	"иркутск":         "Иркутск",
	"калининград":     "Калининград",
	"минск":           "Минск",
	"киев":            "Киев",
	"лондон":          "Лондон",
	"париж":           "Париж",
	"берлин":          "Берлин",
	"прага":           "Прага",
	"стамбул":         "Стамбул",
	"ташкент":         "Ташкент",
	"алматы":          "Алматы",
	"ереван":          "Ереван",
	"тбилиси":         "Тбилиси",
}
