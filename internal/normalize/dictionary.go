package normalize

// Curated vocabulary used by the correction stages. The medical entries double
// as the preservation guard: a token that already names a symptom, body part or
// medication is never rewritten.

// medicalTerms is the correction target list for the edit-distance fallback.
// Kept sorted so candidate selection is deterministic.
var medicalTerms = []string{
	"allergy",
	"anemia",
	"antibiotic",
	"anxiety",
	"arthritis",
	"aspirin",
	"asthma",
	"bleeding",
	"bronchitis",
	"cholesterol",
	"cough",
	"depression",
	"diabetes",
	"diarrhea",
	"dizziness",
	"fatigue",
	"fever",
	"headache",
	"ibuprofen",
	"infection",
	"injury",
	"insomnia",
	"insulin",
	"medicine",
	"migraine",
	"nausea",
	"paracetamol",
	"pneumonia",
	"pressure",
	"seizure",
	"stomach",
	"stroke",
	"swelling",
	"symptom",
	"thyroid",
	"vomiting",
}

// misspellings maps frequent patient-typed misspellings straight to the
// corrected term, ahead of the edit-distance fallback.
var misspellings = map[string]string{
	"alergy":     "allergy",
	"asma":       "asthma",
	"brething":   "breathing",
	"coff":       "cough",
	"colesterol": "cholesterol",
	"diabeties":  "diabetes",
	"diabetis":   "diabetes",
	"diarhea":    "diarrhea",
	"diarrea":    "diarrhea",
	"dizzyness":  "dizziness",
	"feaver":     "fever",
	"feever":     "fever",
	"haedache":   "headache",
	"headake":    "headache",
	"ibuprofin":  "ibuprofen",
	"infektion":  "infection",
	"medecine":   "medicine",
	"migrane":    "migraine",
	"nausia":     "nausea",
	"presure":    "pressure",
	"stomache":   "stomach",
	"vomitting":  "vomiting",
}

// medicalEntities are the symptom names, body parts and medications the guard
// protects. Multi-word entries are matched as phrases.
var medicalEntities = []string{
	"back pain",
	"blood pressure",
	"chest pain",
	"runny nose",
	"shortness of breath",
	"sore throat",
	"stomach ache",

	"allergy", "anemia", "arthritis", "aspirin", "asthma",
	"arm", "back", "bleeding", "chest", "chills", "cough",
	"diabetes", "diarrhea", "dizziness", "ear", "eye", "fatigue",
	"fever", "hand", "head", "headache", "heart", "ibuprofen",
	"insulin", "kidney", "knee", "leg", "liver", "lung",
	"migraine", "nausea", "neck", "paracetamol", "rash",
	"seizure", "shoulder", "skin", "stomach", "stroke",
	"swelling", "throat", "tooth", "vomiting",
}

// knownWords are common conversational words that must never be pulled toward
// a medical term by the edit-distance fallback.
var knownWords = map[string]bool{
	"a": true, "able": true, "about": true, "ache": true, "aches": true,
	"after": true, "again": true, "ago": true, "all": true, "almost": true,
	"also": true, "always": true, "am": true, "and": true, "any": true,
	"are": true, "around": true, "at": true, "bad": true, "badly": true,
	"because": true, "been": true, "before": true, "better": true,
	"body": true, "both": true, "breath": true, "breathe": true,
	"breathing": true, "but": true, "can": true, "cannot": true,
	"could": true, "day": true, "days": true, "do": true, "doctor": true,
	"down": true, "dull": true, "eat": true, "eating": true, "feel": true,
	"feeling": true, "felt": true, "few": true, "for": true, "from": true,
	"get": true, "gets": true, "getting": true, "good": true, "got": true,
	"had": true, "has": true, "have": true, "having": true, "he": true,
	"help": true, "her": true, "him": true, "his": true, "hospital": true,
	"hour": true, "hours": true, "how": true, "hurt": true, "hurting": true,
	"hurts": true, "i": true, "if": true, "in": true, "is": true,
	"it": true, "its": true, "just": true, "know": true, "last": true,
	"left": true, "less": true, "like": true, "little": true, "lot": true,
	"me": true, "mild": true, "month": true, "months": true, "more": true,
	"morning": true, "much": true, "my": true, "never": true, "night": true,
	"no": true, "not": true, "now": true, "nurse": true, "of": true,
	"often": true, "on": true, "only": true, "or": true, "pain": true,
	"painful": true, "pains": true, "please": true, "really": true,
	"right": true, "severe": true, "sharp": true, "she": true, "sick": true,
	"since": true, "sleep": true, "so": true, "some": true,
	"sometimes": true, "still": true, "take": true, "taking": true,
	"than": true, "that": true, "the": true, "then": true, "there": true,
	"they": true, "think": true, "this": true, "time": true, "to": true,
	"today": true, "too": true, "took": true, "two": true, "very": true,
	"walk": true, "want": true, "was": true, "week": true, "weeks": true,
	"were": true, "what": true, "when": true, "while": true, "why": true,
	"will": true, "with": true, "without": true, "worse": true,
	"worst": true, "would": true, "year": true, "years": true, "yes": true,
	"yesterday": true, "you": true, "your": true,
}
