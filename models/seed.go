package models

// seedResident builds one entry of the deterministic provisioning roster
func seedResident(houseID, firstName, lastName, tz, dob, entryDate, tariff, framework string) Resident {
	house := Houses[houseID]
	suffix := tz
	if len(suffix) > 4 {
		suffix = suffix[len(suffix)-4:]
	}
	return Resident{
		ID:                   house.Prefix() + "-" + suffix,
		TZ:                   tz,
		FirstName:            firstName,
		LastName:             lastName,
		HouseName:            house.Name,
		DOB:                  dob,
		EntryDate:            entryDate,
		TariffCode:           tariff,
		FrameworkCode:        framework,
		Description:          "תיק דייר מקצועי - " + firstName + " " + lastName + ".",
		Phone:                "050-0000000",
		Guardian:             "טרם הוזן",
		RiskManagement:       "אין מידע חריג",
		PromotionPlan:        "תכנית קידום אישית בבניה",
		Workplace:            "תעסוקה מוגנת",
		MedicalInfo:          "תקין",
		RecommendedTreatment: "ליווי צוות שבועי",
		Avatar:               "https://api.dicebear.com/7.x/avataaars/svg?seed=" + tz,
		Attachments:          []FileAttachment{},
	}
}

// GenerateInitialResidents returns the deterministic seed roster used when
// both the local cache and the remote store are empty.
func GenerateInitialResidents() []Resident {
	return []Resident{
		// מרזוק
		seedResident("marzuk", "סופיה", "עלין", "320697436", "1978-09-29", "2007-11-20", "362", "2303"),
		seedResident("marzuk", "דוד", "קוגל", "027407816", "1974-07-02", "2003-09-01", "364", "2303"),
		seedResident("marzuk", "קובי", "לנקרי", "039492624", "1984-01-28", "2009-11-01", "362", "2303"),
		seedResident("marzuk", "שירה", "חרצק", "032167751", "1975-03-17", "2003-01-06", "362", "2303"),
		seedResident("marzuk", "נורית", "הוט", "57775603", "1975-10-16", "2007-02-28", "364", "2303"),
		seedResident("marzuk", "אביבה", "נאצו פטפטה", "310970793", "1990-04-01", "2022-11-10", "363", "2303"),

		// סביון
		seedResident("savyon", "אלירן", "דוידוב", "301138038", "1987-09-06", "2008-09-21", "362", "2303"),
		seedResident("savyon", "אולגה", "פולבדין", "317419539", "1972-10-04", "2005-06-14", "362", "2303"),
		seedResident("savyon", "דיאנה", "רוזיליו", "29721057", "1972-09-22", "2003-06-08", "362", "2303"),
		seedResident("savyon", "רחמים", "פנחס", "38740205", "1983-05-17", "2008-12-01", "362", "5178"),
		seedResident("savyon", "יורי", "אברמוב", "303771059", "1980-12-15", "2005-06-01", "363", "2303"),
		seedResident("savyon", "סיוון", "דביר", "27404763", "1974-06-11", "2006-05-15", "363", "2303"),
		seedResident("savyon", "אלכסנדר", "סנדלר", "321377616", "1965-10-25", "2018-02-19", "363", "2303"),
		seedResident("savyon", "דניאל", "קופרשמיד", "309183291", "1971-09-19", "2015-05-25", "363", "2303"),
		seedResident("savyon", "ליטל", "סמסון", "301535712", "1988-03-12", "2018-08-21", "363", "5178"),
		seedResident("savyon", "אלירן", "שרון", "201435708", "1990-05-31", "2014-05-26", "363", "5178"),

		// רבדים
		seedResident("revadim", "ערן", "וינשטוק", "029383114", "1972-05-01", "2012-12-03", "363", "5178"),
		seedResident("revadim", "ניר", "לוי", "032493066", "1986-06-10", "2017-12-04", "363", "5178"),
		seedResident("revadim", "דוד", "בן ציון", "56106495", "1959-11-02", "2022-08-08", "363", "2303"),
		seedResident("revadim", "דן", "אחרן", "037458148", "1980-05-16", "2012-12-03", "363", "5178"),
		seedResident("revadim", "שירלי", "בן דוד", "040360190", "1980-11-29", "2002-01-01", "372", "5178"),
		seedResident("revadim", "רבקה", "טביב", "021698576", "1985-08-14", "2024-02-04", "362", "2303"),
		seedResident("revadim", "יאיר", "ספצ'ק", "037042678", "1985-05-31", "2013-01-20", "363", "5178"),
		seedResident("revadim", "יניב", "גת רימון", "21605167", "1985-08-24", "2011-05-31", "363", "5178"),
		seedResident("revadim", "רווית", "רגב", "33558214", "1976-11-18", "2012-12-03", "363", "5178"),
		seedResident("revadim", "יעקב", "עובדיה", "040852949", "1981-05-30", "2012-07-02", "363", "5178"),
		seedResident("revadim", "ארז", "סמל", "39980164", "1983-05-01", "2018-06-26", "372", "5178"),
		seedResident("revadim", "נילי", "שמול", "21924204", "1986-05-29", "2025-01-01", "362", "2303"),
		seedResident("revadim", "אורית", "פרוג", "21474986", "1980-01-05", "2025-07-27", "363", "5178"),

		// שקמה
		seedResident("shikma", "לבנה", "בן ישעיהו", "31695364", "1978-05-21", "2023-12-03", "362", "2303"),
		seedResident("shikma", "נורית", "צריקר", "38322418", "1976-02-26", "2013-10-13", "363", "5178"),
		seedResident("shikma", "לאה", "דבח", "24269227", "1969-08-14", "2005-05-15", "362", "2303"),
		seedResident("shikma", "שמחה", "דבי", "57213787", "1961-06-25", "2002-03-28", "362", "2303"),
		seedResident("shikma", "הילה", "מסיקה", "40321176", "1980-05-20", "2006-04-23", "362", "2303"),
		seedResident("shikma", "יוגב", "אביני", "60868940", "1982-09-25", "2019-11-26", "363", "2303"),
		seedResident("shikma", "נאור", "אביני", "30106794", "1987-10-28", "2006-08-01", "363", "2303"),
		seedResident("shikma", "אילן", "דאודי", "58638537", "1964-02-20", "2006-12-25", "363", "2303"),
		seedResident("shikma", "שמחה", "דנדקר", "23982440", "1968-12-19", "2011-04-06", "363", "2303"),
		seedResident("shikma", "איציק", "ואנונו", "23543549", "1968-06-13", "2003-08-03", "363", "2303"),
		seedResident("shikma", "תהילה", "יפרח", "205659535", "1994-09-10", "2015-05-10", "363", "2303"),
		seedResident("shikma", "רחמים", "מורדוך", "56030281", "1959-06-16", "2002-02-04", "363", "2303"),
		seedResident("shikma", "יעל", "מזרחי בגדדי", "22102784", "1967-09-20", "2001-08-15", "363", "2303"),
		seedResident("shikma", "נטלי", "נבאתי", "37721412", "1983-11-15", "2003-07-06", "363", "2303"),
		seedResident("shikma", "ברוך", "סייהו", "10346237", "1950-04-09", "2015-02-01", "363", "2303"),
		seedResident("shikma", "אדיסו", "סלומון", "309613792", "1968-01-01", "2013-02-17", "363", "5178"),
		seedResident("shikma", "גילת", "דיין", "36904910", "1985-04-05", "2020-11-18", "372", "5178"),
		seedResident("shikma", "משה", "חברון", "206579070", "1999-12-31", "2021-07-04", "372", "5178"),
		seedResident("shikma", "גיל", "חיימוביץ'", "302580907", "1984-03-31", "2019-06-05", "372", "5178"),
		seedResident("shikma", "ברוך", "כהן", "28010999", "1970-09-11", "2021-11-28", "372", "5178"),
		seedResident("shikma", "נתנאל", "מימון", "207070731", "1996-02-19", "2016-02-15", "372", "5178"),
		seedResident("shikma", "שלום", "עוזיאל", "24005902", "1968-08-21", "2022-02-16", "372", "5178"),
		seedResident("shikma", "רן", "קשנובסקי", "209511443", "1998-08-08", "2020-02-03", "372", "5178"),
		seedResident("shikma", "אלעד", "קחלון", "205988330", "1994-09-16", "2023-10-09", "362", "2303"),
	}
}
