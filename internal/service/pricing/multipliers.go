package pricing

// Множители задаются в сотых долях: 100 = 1.0x
const (
	// HomeMultiplier множитель для домашней страны
	HomeMultiplier = 100

	// DefaultMultiplier множитель для стран, которых нет в таблице
	DefaultMultiplier = 200

	// NeutralServiceMultiplier множитель для обычных (не премиальных) услуг
	NeutralServiceMultiplier = 100
)

// DefaultCountryMultipliers встроенная таблица паритета покупательной способности
// Ключи в нижнем регистре, совпадение только точное (коды alpha-2 см. countryCodes)
func DefaultCountryMultipliers() map[string]int {
	return map[string]int{
		// Страны с высоким доходом: 2.0x - 4.0x
		"united states":        350,
		"usa":                  350,
		"united kingdom":       300,
		"uk":                   300,
		"canada":               300,
		"australia":            300,
		"new zealand":          280,
		"germany":              300,
		"france":               280,
		"netherlands":          300,
		"belgium":              280,
		"austria":              280,
		"ireland":              320,
		"switzerland":          400,
		"luxembourg":           400,
		"norway":               380,
		"sweden":               300,
		"denmark":              320,
		"finland":              280,
		"italy":                240,
		"spain":                220,
		"japan":                250,
		"south korea":          220,
		"singapore":            300,
		"hong kong":            280,
		"israel":               250,
		"united arab emirates": 250,
		"uae":                  250,
		"qatar":                250,
		"kuwait":               240,
		"saudi arabia":         220,

		// Страны с доходом выше среднего: 1.4x - 3.0x
		"china":        180,
		"mauritius":    180,
		"malaysia":     170,
		"brazil":       160,
		"mexico":       160,
		"russia":       160,
		"fiji":         160,
		"south africa": 150,
		"turkey":       150,
		"thailand":     150,
		"argentina":    140,
		"colombia":     140,

		// Страны с доходом ниже среднего: 1.1x - 1.3x
		"indonesia":   130,
		"philippines": 125,
		"vietnam":     125,
		"nigeria":     120,
		"kenya":       120,
		"egypt":       120,
		"sri lanka":   115,
		"bangladesh":  110,
		"pakistan":    110,
		"nepal":       110,
	}
}

// countryCodes коды ISO-3166 alpha-2 (в нижнем регистре) -> название из таблицы множителей
// Геосервис передает код, таблица и конфигурация используют названия
var countryCodes = map[string]string{
	"in": "india",
	"us": "united states",
	"gb": "united kingdom",
	"ca": "canada",
	"au": "australia",
	"nz": "new zealand",
	"de": "germany",
	"fr": "france",
	"nl": "netherlands",
	"be": "belgium",
	"at": "austria",
	"ie": "ireland",
	"ch": "switzerland",
	"lu": "luxembourg",
	"no": "norway",
	"se": "sweden",
	"dk": "denmark",
	"fi": "finland",
	"it": "italy",
	"es": "spain",
	"jp": "japan",
	"kr": "south korea",
	"sg": "singapore",
	"hk": "hong kong",
	"il": "israel",
	"ae": "united arab emirates",
	"qa": "qatar",
	"kw": "kuwait",
	"sa": "saudi arabia",
	"cn": "china",
	"mu": "mauritius",
	"my": "malaysia",
	"br": "brazil",
	"mx": "mexico",
	"ru": "russia",
	"fj": "fiji",
	"za": "south africa",
	"tr": "turkey",
	"th": "thailand",
	"ar": "argentina",
	"co": "colombia",
	"id": "indonesia",
	"ph": "philippines",
	"vn": "vietnam",
	"ng": "nigeria",
	"ke": "kenya",
	"eg": "egypt",
	"lk": "sri lanka",
	"bd": "bangladesh",
	"pk": "pakistan",
	"np": "nepal",
}
