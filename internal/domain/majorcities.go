package domain

import "strings"

// majorCities lists, per state, the larger cities that reliably have ACS
// 1-year estimates. Used only as a data-availability hint; unlisted cities
// are still analyzed.
var majorCities = map[string][]string{
	"NY": {"New York", "Buffalo", "Rochester", "Syracuse", "Albany"},
	"CA": {"Los Angeles", "San Francisco", "San Diego", "San Jose", "Sacramento",
		"Fresno", "Oakland", "Long Beach", "Anaheim"},
	"TX": {"Houston", "Dallas", "Austin", "San Antonio", "Fort Worth", "El Paso"},
	"FL": {"Miami", "Tampa", "Orlando", "Jacksonville", "St. Petersburg"},
	"IL": {"Chicago", "Aurora", "Rockford", "Joliet", "Naperville"},
	"PA": {"Philadelphia", "Pittsburgh", "Allentown", "Erie"},
	"OH": {"Columbus", "Cleveland", "Cincinnati", "Toledo", "Akron"},
	"GA": {"Atlanta", "Augusta", "Columbus", "Savannah"},
	"NC": {"Charlotte", "Raleigh", "Greensboro", "Durham", "Winston-Salem"},
	"MI": {"Detroit", "Grand Rapids", "Warren", "Sterling Heights", "Lansing"},
	"WA": {"Seattle", "Spokane", "Tacoma", "Vancouver", "Bellevue"},
	"AZ": {"Phoenix", "Tucson", "Mesa", "Chandler", "Scottsdale"},
	"MA": {"Boston", "Worcester", "Springfield", "Lowell", "Cambridge"},
	"TN": {"Nashville", "Memphis", "Knoxville", "Chattanooga"},
	"IN": {"Indianapolis", "Fort Wayne", "Evansville", "South Bend"},
	"MO": {"Kansas City", "St. Louis", "Springfield", "Independence"},
	"MD": {"Baltimore", "Frederick", "Rockville", "Gaithersburg"},
	"WI": {"Milwaukee", "Madison", "Green Bay", "Kenosha"},
	"MN": {"Minneapolis", "St. Paul", "Plymouth", "Woodbury"},
	"CO": {"Denver", "Colorado Springs", "Aurora", "Fort Collins", "Lakewood"},
	"AL": {"Birmingham", "Montgomery", "Mobile", "Huntsville"},
	"SC": {"Charleston", "Columbia", "North Charleston", "Mount Pleasant"},
	"LA": {"New Orleans", "Baton Rouge", "Shreveport", "Lafayette"},
	"KY": {"Louisville", "Lexington", "Bowling Green", "Owensboro"},
	"OR": {"Portland", "Eugene", "Salem", "Gresham"},
	"OK": {"Oklahoma City", "Tulsa", "Norman", "Broken Arrow"},
	"CT": {"Bridgeport", "New Haven", "Hartford", "Stamford"},
	"IA": {"Des Moines", "Cedar Rapids", "Davenport", "Sioux City"},
	"MS": {"Jackson", "Gulfport", "Southaven", "Hattiesburg"},
	"AR": {"Little Rock", "Fort Smith", "Fayetteville", "Springdale"},
	"KS": {"Wichita", "Overland Park", "Kansas City", "Topeka"},
	"UT": {"Salt Lake City", "West Valley City", "Provo", "West Jordan"},
	"NV": {"Las Vegas", "Henderson", "Reno", "North Las Vegas"},
	"NM": {"Albuquerque", "Las Cruces", "Rio Rancho", "Santa Fe"},
	"WV": {"Charleston", "Huntington", "Morgantown", "Parkersburg"},
	"NE": {"Omaha", "Lincoln", "Bellevue", "Grand Island"},
	"ID": {"Boise", "Meridian", "Nampa", "Idaho Falls"},
	"HI": {"Honolulu", "East Honolulu", "Pearl City", "Hilo"},
	"NH": {"Manchester", "Nashua", "Concord", "Derry"},
	"ME": {"Portland", "Lewiston", "Bangor", "South Portland"},
	"RI": {"Providence", "Cranston", "Warwick", "Pawtucket"},
	"MT": {"Billings", "Missoula", "Great Falls", "Bozeman"},
	"DE": {"Wilmington", "Dover", "Newark", "Middletown"},
	"SD": {"Sioux Falls", "Rapid City", "Aberdeen", "Brookings"},
	"ND": {"Fargo", "Bismarck", "Grand Forks", "Minot"},
	"AK": {"Anchorage", "Fairbanks", "Juneau", "Sitka"},
	"DC": {"Washington"},
	"VT": {"Burlington", "Essex", "South Burlington", "Colchester"},
	"WY": {"Cheyenne", "Casper", "Laramie", "Gillette"},
}

// IsMajorCity reports whether the city is on the per-state list of larger
// cities. The match is case-insensitive and accepts a substring in either
// direction, so "New York" matches "New York City" and vice versa.
func IsMajorCity(city, state string) bool {
	lower := strings.ToLower(city)
	for _, known := range majorCities[strings.ToUpper(state)] {
		knownLower := strings.ToLower(known)
		if strings.Contains(knownLower, lower) || strings.Contains(lower, knownLower) {
			return true
		}
	}
	return false
}
