package ingredient

import (
	"fmt"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/Acex619/gusto-food-scanner/internal/model"
)

const (
	minDefinitionLen = 30
	maxDefinitionLen = 400
)

var curatedDefinitions = map[string]string{
	"palm oil":                 "Palm oil is an edible vegetable oil pressed from the fruit of the oil palm. It is semi-solid at room temperature and widely used in baked goods, spreads and snacks; its cultivation is a leading driver of tropical deforestation.",
	"sugar":                    "Sugar is sucrose refined from sugar cane or sugar beet. It sweetens, browns and preserves food and is the main source of added sugars in most diets.",
	"salt":                     "Salt is sodium chloride, used to season and preserve food. High intake of sodium is linked to raised blood pressure.",
	"water":                    "Water is used as a solvent and carrier in food manufacturing and contributes no energy or nutrients.",
	"wheat flour":              "Wheat flour is milled from wheat grain and provides the gluten network that gives bread and pastry their structure.",
	"cocoa butter":             "Cocoa butter is the pale fat pressed from cocoa beans. It gives chocolate its melt-in-the-mouth texture and contains no milk despite the name.",
	"cocoa mass":               "Cocoa mass is ground roasted cocoa nibs, the base of chocolate, containing both cocoa solids and cocoa butter.",
	"soy lecithin":             "Soy lecithin is a mixture of phospholipids extracted from soybean oil and used as an emulsifier to keep fat and water blended.",
	"lecithin":                 "Lecithin is a group of phospholipids, usually from soy or sunflower, used as an emulsifier in chocolate, spreads and baked goods.",
	"high fructose corn syrup": "High fructose corn syrup is a liquid sweetener made by enzymatically converting corn starch glucose into fructose, common in soft drinks and processed foods.",
	"glucose syrup":            "Glucose syrup is a concentrated solution of glucose and other sugars made by hydrolysing starch, used to sweeten and prevent crystallisation.",
	"maltodextrin":             "Maltodextrin is a starch-derived carbohydrate powder used as a thickener, filler and carrier for flavourings.",
	"modified starch":          "Modified starch is starch treated physically, enzymatically or chemically to change how it thickens, gels or withstands heat.",
	"citric acid":              "Citric acid is an organic acid, now mostly produced by fermentation, used to add sourness and as a preservative and antioxidant synergist.",
	"ascorbic acid":            "Ascorbic acid is vitamin C, added to foods as an antioxidant to prevent browning and as a nutrient.",
	"xanthan gum":              "Xanthan gum is a polysaccharide produced by bacterial fermentation of sugars, used to thicken and stabilise sauces and dressings.",
	"carrageenan":              "Carrageenan is a family of gelling polysaccharides extracted from red seaweed, used to thicken dairy products and plant-based drinks.",
	"aspartame":                "Aspartame is an artificial sweetener about 200 times sweeter than sugar, made from the amino acids aspartic acid and phenylalanine.",
	"sucralose":                "Sucralose is a chlorinated derivative of sucrose used as a zero-calorie artificial sweetener roughly 600 times sweeter than sugar.",
	"acesulfame k":             "Acesulfame potassium is a calorie-free artificial sweetener, often blended with other sweeteners to mask its bitter aftertaste.",
	"saccharin":                "Saccharin is one of the oldest artificial sweeteners, several hundred times sweeter than sugar and stable when heated.",
	"sodium nitrite":           "Sodium nitrite is a curing salt used in processed meats to fix their pink colour and inhibit botulism; it can form nitrosamines during cooking.",
	"sodium benzoate":          "Sodium benzoate is a preservative that inhibits moulds and yeasts in acidic foods such as soft drinks and pickles.",
	"potassium sorbate":        "Potassium sorbate is the potassium salt of sorbic acid, a preservative that prevents mould and yeast growth.",
	"monosodium glutamate":     "Monosodium glutamate is the sodium salt of glutamic acid, used as a flavour enhancer that gives a savoury umami taste.",
	"msg":                      "MSG, monosodium glutamate, is the sodium salt of glutamic acid and is used as a flavour enhancer for savoury umami taste.",
	"titanium dioxide":         "Titanium dioxide is a white pigment used to whiten and opacify confectionery; it is no longer authorised as a food additive in the EU.",
	"bha":                      "BHA, butylated hydroxyanisole, is a synthetic antioxidant that keeps fats from turning rancid and is listed as a possible human carcinogen.",
	"bht":                      "BHT, butylated hydroxytoluene, is a synthetic antioxidant used to preserve fats and oils in cereals and snack foods.",
	"partially hydrogenated":   "Partially hydrogenated oils are vegetable oils hardened by hydrogenation, a process that creates artificial trans fats linked to heart disease.",
	"skimmed milk powder":      "Skimmed milk powder is dried milk with most of the fat removed, used to add milk solids, protein and browning to foods.",
	"milk":                     "Milk is the nutrient-rich liquid produced by mammals, in food usually from cows, supplying protein, calcium and lactose.",
	"whey":                     "Whey is the liquid left after milk is curdled for cheese, dried into a protein-rich ingredient for baked goods and drinks.",
	"egg":                      "Egg is used for binding, leavening and emulsifying in food and is one of the most common food allergens.",
	"hazelnut":                 "Hazelnuts are the nuts of the hazel tree, prized for their flavour in spreads and confectionery and a common tree-nut allergen.",
	"peanut":                   "Peanuts are legume seeds eaten roasted or as oil and butter; peanut is one of the most severe common food allergens.",
	"soybean oil":              "Soybean oil is a vegetable oil pressed from soybeans and among the most widely produced edible oils.",
	"sunflower oil":            "Sunflower oil is a light vegetable oil pressed from sunflower seeds, rich in unsaturated fats.",
	"rapeseed oil":             "Rapeseed oil, also sold as canola oil, is pressed from rapeseed and is low in saturated fat.",
	"corn starch":              "Corn starch is the starch extracted from maize kernels, used to thicken sauces, soups and desserts.",
	"natural flavor":           "Natural flavours are flavouring preparations obtained from plant or animal sources by physical, enzymatic or microbiological processes.",
	"vanillin":                 "Vanillin is the main flavour compound of vanilla, usually produced synthetically or by fermentation rather than from vanilla beans.",
	"yeast":                    "Yeast is a single-celled fungus used to leaven bread and ferment beverages by converting sugars into carbon dioxide and alcohol.",
	"gelatin":                  "Gelatin is a protein obtained by boiling animal skin and bones, used as a gelling agent in sweets and desserts.",
	"caramel color":            "Caramel colour is a brown colouring made by heating carbohydrates, sometimes with ammonia or sulphite compounds, used in colas and sauces.",
}

// Keys longest first so the most specific substring wins.
var curatedDefinitionKeys = sortedKeysByLength(curatedDefinitions)

func sortedKeysByLength(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if len(keys[i]) != len(keys[j]) {
			return len(keys[i]) > len(keys[j])
		}
		return keys[i] < keys[j]
	})
	return keys
}

// CuratedDefinition looks a name up in the curated table by exact match,
// then prefix, then whole-word substring.
func CuratedDefinition(name string) (string, bool) {
	n := Normalize(name)
	if n == "" {
		return "", false
	}
	if d, ok := curatedDefinitions[n]; ok {
		return d, true
	}
	for _, k := range curatedDefinitionKeys {
		if strings.HasPrefix(n, k+" ") {
			return curatedDefinitions[k], true
		}
	}
	for _, k := range curatedDefinitionKeys {
		if containsWord(n, k) {
			return curatedDefinitions[k], true
		}
	}
	return "", false
}

type ingredientRole struct {
	terms []string
	label string
}

var ingredientRoles = []ingredientRole{
	{[]string{"nitrite", "nitrate", "benzoate", "sorbate", "sulfite", "sulphite", "propionate", "preservative"}, "a preservative"},
	{[]string{"aspartame", "sucralose", "acesulfame", "saccharin", "stevia", "steviol", "sorbitol", "xylitol", "sweetener", "syrup", "sugar", "dextrose"}, "a sweetener"},
	{[]string{"gum", "starch", "pectin", "carrageenan", "agar", "gelatin", "cellulose", "thickener"}, "a thickening or gelling agent"},
	{[]string{"color", "colour", "annatto", "carotene", "caramel", "paprika extract", "dye"}, "a colouring agent"},
	{[]string{"lecithin", "glycerides", "emulsifier", "polysorbate"}, "an emulsifier"},
	{[]string{"flavor", "flavour", "flavoring", "flavouring", "glutamate", "vanillin"}, "a flavouring"},
	{[]string{"oil", "fat", "shortening", "margarine"}, "a fat or oil"},
	{[]string{"acid", "citrate", "phosphate", "carbonate"}, "an acidity regulator or mineral salt"},
}

func roleFor(name string) string {
	for _, r := range ingredientRoles {
		if _, ok := matchAnyWord(name, r.terms); ok {
			return r.label
		}
	}
	if ENumber(name) != "" {
		return "a regulated food additive"
	}
	return "a food ingredient"
}

// TemplateDefinition assembles a definition from the classification. It never
// fails and always satisfies the length bounds.
func TemplateDefinition(name string, c Classification) string {
	display := displayName(name)
	var b strings.Builder
	fmt.Fprintf(&b, "%s is %s used in packaged foods.", display, roleFor(Normalize(name)))
	fmt.Fprintf(&b, " It has %s processing and %s sustainability.", c.ProcessingLevel, c.Sustainability)
	switch c.Allergenicity {
	case model.AllergenicityHigh:
		b.WriteString(" It belongs to a major allergen group.")
	case model.AllergenicityMedium:
		b.WriteString(" It can trigger reactions in sensitive people.")
	}
	switch c.GMOStatus {
	case model.GMOFree:
		fmt.Fprintf(&b, " It is considered GMO-free (%d%% confidence).", c.GMOConfidence)
	case model.GMOContained:
		fmt.Fprintf(&b, " It contains genetically modified material (%d%% confidence).", c.GMOConfidence)
	default:
		fmt.Fprintf(&b, " It may be GMO-derived (%d%% confidence).", c.GMOConfidence)
	}
	def, _ := FitDefinition(b.String())
	return def
}

func displayName(name string) string {
	name = strings.Join(strings.Fields(name), " ")
	if name == "" {
		return "This ingredient"
	}
	r, size := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r)) + name[size:]
}

// FitDefinition collapses whitespace and truncates to the maximum length at a
// word boundary. It reports false when the text is too short to be useful.
func FitDefinition(s string) (string, bool) {
	s = strings.Join(strings.Fields(s), " ")
	if utf8.RuneCountInString(s) < minDefinitionLen {
		return s, false
	}
	if utf8.RuneCountInString(s) <= maxDefinitionLen {
		return s, true
	}
	runes := []rune(s)
	cut := string(runes[:maxDefinitionLen-3])
	if i := strings.LastIndex(cut, " "); i > minDefinitionLen {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,;:.") + "...", true
}
