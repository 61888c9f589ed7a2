package ingredient

// Terms are stored in Normalize form and matched as whole words.

var highRiskTerms = []string{
	"sodium nitrite", "sodium nitrate", "potassium nitrite", "potassium nitrate",
	"potassium bromate", "bha", "butylated hydroxyanisole", "bht", "butylated hydroxytoluene",
	"tbhq", "msg", "monosodium glutamate", "red 40", "red 3", "yellow 5", "yellow 6",
	"blue 1", "allura red", "tartrazine", "sunset yellow", "erythrosine",
	"titanium dioxide", "brominated vegetable oil", "propyl gallate",
}

var highRiskCodes = map[string]bool{
	"e102": true, "e110": true, "e127": true, "e129": true, "e171": true,
	"e249": true, "e250": true, "e251": true, "e252": true,
	"e310": true, "e319": true, "e320": true, "e321": true, "e621": true, "e924": true,
}

var moderateRiskTerms = []string{
	"palm oil", "palm fat", "palm kernel oil", "palm kernel fat", "palmolein", "palm olein",
	"high fructose corn syrup", "glucose fructose syrup", "corn syrup",
	"aspartame", "sucralose", "acesulfame", "acesulfame k", "acesulfame potassium",
	"saccharin", "neotame", "artificial sweetener", "partially hydrogenated", "hydrogenated",
	"carrageenan", "soy lecithin", "soya lecithin", "sodium benzoate", "potassium sorbate",
}

// Additive codes with reported concerns that are not on the high-risk list.
var concerningCodes = map[string]bool{
	"e104": true, "e120": true, "e122": true, "e124": true, "e131": true, "e132": true,
	"e133": true, "e142": true, "e150c": true, "e150d": true, "e151": true, "e155": true,
	"e210": true, "e211": true, "e212": true, "e213": true,
	"e220": true, "e221": true, "e222": true, "e223": true, "e224": true, "e226": true,
	"e227": true, "e228": true, "e311": true, "e312": true, "e338": true, "e339": true,
	"e340": true, "e341": true, "e407": true, "e407a": true, "e450": true, "e451": true,
	"e452": true, "e466": true, "e950": true, "e951": true, "e952": true, "e954": true,
	"e955": true, "e961": true, "e962": true,
}

var gmoCropTerms = []string{
	"corn", "maize", "soy", "soya", "soybean", "soja", "canola", "rapeseed",
	"cottonseed", "sugar beet", "beet sugar", "papaya", "potato",
}

var gmoDerivedTerms = []string{
	"modified starch", "modified food starch", "high fructose corn syrup", "glucose syrup",
	"glucose fructose syrup", "maltodextrin", "dextrose", "lecithin", "vegetable oil",
	"vegetable fat", "citric acid", "ascorbic acid", "xanthan gum", "sorbitol",
	"aspartame", "hydrolyzed vegetable protein", "textured vegetable protein",
	"mono and diglycerides", "natural flavors", "caramel color",
}

var nonGMOLabels = []string{"no-gmo", "non-gmo", "gmo-free", "without-gmo", "ohne-gentechnik", "sans-ogm"}

var containsGMOLabels = []string{"contains-gmo", "genetically-modified", "genetic-engineering", "with-gmo"}

var redMeatTerms = []string{"beef", "veal", "lamb", "mutton", "pork", "goat", "venison", "bacon", "ham"}

var sustainableTerms = []string{"organic", "local", "fair trade", "fairtrade", "fair traded"}

var palmCertifications = []string{"rspo", "sustainable", "organic", "segregated", "identity preserved"}

// Substances behind the nine most common food allergy classes.
var majorAllergenTerms = []string{
	"milk", "cream", "butter", "cheese", "whey", "casein", "caseinate", "lactose", "yogurt", "yoghurt",
	"buttermilk", "milkfat", "butterfat", "ghee",
	"egg", "eggwhite", "eggyolk", "albumen", "fish", "anchovy", "salmon", "tuna", "cod",
	"shellfish", "shrimp", "prawn", "crab", "lobster", "crayfish",
	"nut", "tree nut", "almond", "hazelnut", "walnut", "cashew", "pecan", "pistachio", "macadamia", "brazil nut",
	"peanut", "groundnut", "arachis",
	"wheat", "soy", "soya", "soybean", "sesame",
}

var minorAllergenTerms = []string{
	"gluten", "barley", "rye", "oat", "spelt", "kamut", "mustard", "celery", "celeriac", "lupin",
	"sulphite", "sulfite", "sulphur dioxide", "sulfur dioxide", "metabisulfite", "metabisulphite",
	"mollusc", "mollusk", "squid", "mussel", "oyster",
}

var lowAllergenTerms = []string{"flavor", "flavour", "flavoring", "flavouring", "spice", "spices"}

// Phrases that contain an allergen word without carrying the allergen.
var allergenExclusions = []string{"cocoa butter", "shea butter", "cream of tartar", "coconut milk"}

var highProcessingFragments = []string{
	"hydrolyzed", "hydrolysed", "modified", "isolate", "artificial", "hydrogenated",
	"interesterified", "extruded",
}

var minimalProcessingTerms = []string{"organic", "raw", "fresh", "whole", "wholegrain", "unrefined"}
