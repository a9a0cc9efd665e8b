package seed

import (
	"strings"

	"github.com/shopspring/decimal"
)

// CatalogEntry is a demo product loaded by the seeder.
type CatalogEntry struct {
	Name        string
	Description string
	Price       decimal.Decimal
}

// DemoCatalog lists the demo storefront: 6 laptops followed by 14 smartphones.
// Prices are in roubles.
var DemoCatalog = []CatalogEntry{
	{
		Name:        "Ноутбук ASUS VivoBook 15 X1504VA-NJ144W",
		Description: "Ноутбук ASUS VivoBook 15 X1504VA-NJ144W с процессором Intel Core i5-1335U, 16 ГБ ОЗУ, SSD 512 ГБ, экран 15.6\" Full HD, Windows 11 Home. Идеален для работы и учёбы.",
		Price:       decimal.RequireFromString("59999.00"),
	},
	{
		Name:        "Ноутбук Lenovo IdeaPad 3 15IAU7",
		Description: "Ноутбук Lenovo IdeaPad 3 15IAU7 с процессором Intel Core i3-1215U, 8 ГБ ОЗУ, SSD 256 ГБ, экран 15.6\" HD, Windows 11 Home. Отличный выбор для повседневных задач.",
		Price:       decimal.RequireFromString("34999.00"),
	},
	{
		Name:        "Ноутбук HP 15s-eq2000ur",
		Description: "Ноутбук HP 15s-eq2000ur с процессором AMD Ryzen 5 5500U, 8 ГБ ОЗУ, SSD 512 ГБ, экран 15.6\" Full HD, Windows 11 Home. Надёжный помощник для работы.",
		Price:       decimal.RequireFromString("44999.00"),
	},
	{
		Name:        "Ноутбук Acer Aspire 3 A315-59",
		Description: "Ноутбук Acer Aspire 3 A315-59 с процессором Intel Core i5-1235U, 8 ГБ ОЗУ, SSD 512 ГБ, экран 15.6\" Full HD, Windows 11 Home. Сбалансированное решение.",
		Price:       decimal.RequireFromString("49999.00"),
	},
	{
		Name:        "Ноутбук Dell Inspiron 15 3520",
		Description: "Ноутбук Dell Inspiron 15 3520 с процессором Intel Core i5-1235U, 8 ГБ ОЗУ, SSD 256 ГБ, экран 15.6\" Full HD, Windows 11 Home. Качество и надёжность Dell.",
		Price:       decimal.RequireFromString("54999.00"),
	},
	{
		Name:        "Ноутбук MSI Modern 15 B13M",
		Description: "Ноутбук MSI Modern 15 B13M с процессором Intel Core i7-1355U, 16 ГБ ОЗУ, SSD 512 ГБ, экран 15.6\" Full HD, Windows 11 Home. Мощный и стильный.",
		Price:       decimal.RequireFromString("79999.00"),
	},
	{
		Name:        "Смартфон Samsung Galaxy A54 5G",
		Description: "Смартфон Samsung Galaxy A54 5G с экраном 6.4\" Super AMOLED, процессором Exynos 1380, 8 ГБ ОЗУ, 128 ГБ памяти, камера 50 Мп, 5G. Отличный выбор для повседневного использования.",
		Price:       decimal.RequireFromString("29999.00"),
	},
	{
		Name:        "Смартфон Apple iPhone 15",
		Description: "Смартфон Apple iPhone 15 с экраном 6.1\" Super Retina XDR, процессором A17 Pro, 128 ГБ памяти, камера 48 Мп. Флагман Apple с передовыми технологиями.",
		Price:       decimal.RequireFromString("79999.00"),
	},
	{
		Name:        "Смартфон Xiaomi Redmi Note 12 Pro",
		Description: "Смартфон Xiaomi Redmi Note 12 Pro с экраном 6.67\" AMOLED, процессором MediaTek Dimensity 1080, 8 ГБ ОЗУ, 256 ГБ памяти, камера 200 Мп. Отличное соотношение цена-качество.",
		Price:       decimal.RequireFromString("24999.00"),
	},
	{
		Name:        "Смартфон Realme 11 Pro",
		Description: "Смартфон Realme 11 Pro с экраном 6.7\" AMOLED, процессором MediaTek Dimensity 7050, 12 ГБ ОЗУ, 512 ГБ памяти, камера 200 Мп. Мощный и стильный.",
		Price:       decimal.RequireFromString("34999.00"),
	},
	{
		Name:        "Смартфон OnePlus Nord CE 3 Lite",
		Description: "Смартфон OnePlus Nord CE 3 Lite с экраном 6.72\" IPS, процессором Snapdragon 695, 8 ГБ ОЗУ, 256 ГБ памяти, камера 108 Мп. Быстрый и надёжный.",
		Price:       decimal.RequireFromString("19999.00"),
	},
	{
		Name:        "Смартфон Google Pixel 7a",
		Description: "Смартфон Google Pixel 7a с экраном 6.1\" OLED, процессором Google Tensor G2, 8 ГБ ОЗУ, 128 ГБ памяти, камера 64 Мп. Чистый Android и отличная камера.",
		Price:       decimal.RequireFromString("44999.00"),
	},
	{
		Name:        "Смартфон Honor 90",
		Description: "Смартфон Honor 90 с экраном 6.7\" AMOLED, процессором Snapdragon 7 Gen 1, 12 ГБ ОЗУ, 512 ГБ памяти, камера 200 Мп. Стильный дизайн и мощные характеристики.",
		Price:       decimal.RequireFromString("39999.00"),
	},
	{
		Name:        "Смартфон Vivo Y100",
		Description: "Смартфон Vivo Y100 с экраном 6.38\" AMOLED, процессором Snapdragon 695, 8 ГБ ОЗУ, 128 ГБ памяти, камера 64 Мп. Компактный и функциональный.",
		Price:       decimal.RequireFromString("17999.00"),
	},
	{
		Name:        "Смартфон OPPO Reno10",
		Description: "Смартфон OPPO Reno10 с экраном 6.7\" AMOLED, процессором MediaTek Dimensity 7050, 8 ГБ ОЗУ, 256 ГБ памяти, камера 64 Мп. Отличная камера и дизайн.",
		Price:       decimal.RequireFromString("32999.00"),
	},
	{
		Name:        "Смартфон Motorola Edge 40",
		Description: "Смартфон Motorola Edge 40 с экраном 6.55\" pOLED, процессором MediaTek Dimensity 8020, 8 ГБ ОЗУ, 256 ГБ памяти, камера 50 Мп. Быстрый и стильный.",
		Price:       decimal.RequireFromString("37999.00"),
	},
	{
		Name:        "Смартфон Nothing Phone (2)",
		Description: "Смартфон Nothing Phone (2) с экраном 6.7\" LTPO OLED, процессором Snapdragon 8+ Gen 1, 12 ГБ ОЗУ, 512 ГБ памяти, камера 50 Мп. Уникальный дизайн.",
		Price:       decimal.RequireFromString("59999.00"),
	},
	{
		Name:        "Смартфон Tecno Camon 20 Pro",
		Description: "Смартфон Tecno Camon 20 Pro с экраном 6.67\" AMOLED, процессором MediaTek Helio G99, 8 ГБ ОЗУ, 256 ГБ памяти, камера 108 Мп. Отличная камера за разумную цену.",
		Price:       decimal.RequireFromString("15999.00"),
	},
	{
		Name:        "Смартфон Infinix Note 30 Pro",
		Description: "Смартфон Infinix Note 30 Pro с экраном 6.78\" AMOLED, процессором MediaTek Helio G99, 8 ГБ ОЗУ, 256 ГБ памяти, камера 108 Мп. Большой экран и мощная батарея.",
		Price:       decimal.RequireFromString("16999.00"),
	},
	{
		Name:        "Смартфон POCO X5 Pro",
		Description: "Смартфон POCO X5 Pro с экраном 6.67\" AMOLED, процессором Snapdragon 778G, 8 ГБ ОЗУ, 256 ГБ памяти, камера 108 Мп. Игровой смартфон по доступной цене.",
		Price:       decimal.RequireFromString("22999.00"),
	},
}

var imageNameReplacer = strings.NewReplacer(" ", "_", "(", "", ")", "", "+", "")

var legacyImageNameReplacer = strings.NewReplacer(" ", "_", "(", "", ")", "", "+", "_")

// ImageFilename returns the image file expected for a product name: spaces
// become underscores, parentheses and plus signs are dropped.
func ImageFilename(name string) string {
	return imageNameReplacer.Replace(name) + ".jpg"
}

// LegacyImageFilename is the older naming where plus signs became underscores.
func LegacyImageFilename(name string) string {
	return legacyImageNameReplacer.Replace(name) + ".jpg"
}

// imageCandidates returns the filenames to look for, most preferred first.
func imageCandidates(name string) []string {
	primary, legacy := ImageFilename(name), LegacyImageFilename(name)
	if primary == legacy {
		return []string{primary}
	}
	return []string{primary, legacy}
}
