package report

import "time"

// DefaultPlan returns the Bogotá to Ciudad Juárez convoy plan, dated now.
func DefaultPlan() Plan {
	return Plan{
		Title: "Planning Report: Military Route Bogotá - Ciudad Juárez",
		Date:  time.Now(),
		Purpose: "Planning and execution of a military land route from Bogotá, Colombia, " +
			"to Ciudad Juárez, Mexico, prioritizing speed, safety, and logistics.",
		Introduction: "This report outlines the planning of a military land route from Bogotá, Colombia, " +
			"to Ciudad Juárez, Mexico, covering approximately 4,800 km across multiple countries (Colombia, " +
			"Panama, Costa Rica, Nicaragua, Honduras, Guatemala, and Mexico). The route is designed for a " +
			"military convoy, prioritizing main highways, safety against conflict zones, and efficient " +
			"logistics. Due to the Darién Gap, a maritime or air segment is included between Colombia and " +
			"Panama. The objective is to ensure a swift and secure execution, with an estimated duration of " +
			"7 to 10 days, accounting for stops, border crossings, and resupply.",
		RouteOverview: "The route is divided into key segments, utilizing major highways such as the " +
			"Pan-American Highway and toll roads in Mexico. Below is a detailed breakdown of each segment:",
		Segments: []Segment{
			{"1", "Bogotá → Cúcuta, Colombia", "560 km", "Troncal 55, Troncal 66", "10-12 hours",
				"Border area with Venezuela, potential instability. Military escort recommended."},
			{"2", "Cúcuta → Cartagena, Colombia", "430 km", "Troncal 45, Route 90", "8 hours",
				"Preparation for maritime/air transport to Panama."},
			{"3", "Cartagena → Panama City", "600 km (gap)", "Maritime/Air", "12-24 hours",
				"Coordinate with military ports or airports."},
			{"4", "Panama City → San José, Costa Rica", "530 km", "Pan-American Highway (CA-1)", "8-10 hours",
				"Border crossing at Paso Canoas, strict documentation."},
			{"5", "San José → Managua, Nicaragua", "430 km", "Pan-American Highway (CA-1)", "7-8 hours",
				"Political risks in Nicaragua, maintain low profile."},
			{"6", "Managua → Tegucigalpa, Honduras", "400 km", "CA-1, CA-3", "7-8 hours",
				"Areas with criminal activity, use armed escorts."},
			{"7", "Tegucigalpa → Guatemala City", "360 km", "CA-5, CA-13, CA-9", "6-7 hours",
				"Avoid gang areas, coordinate with Guatemalan army."},
			{"8", "Guatemala City → Tapachula, Mexico", "250 km", "CA-1, Mexico 200", "5-6 hours",
				"Border with high migratory activity, reinforce security."},
			{"9", "Tapachula → Mexico City", "1,100 km", "Mexico 200, Mexico 150D", "14-16 hours",
				"Use toll highways, avoid cartel zones."},
			{"10", "Mexico City → Ciudad Juárez", "1,800 km", "Mexico 57D, Mexico 45D", "20-22 hours",
				"Escorted convoys in Chihuahua, military presence in Juárez."},
		},
		Security: []string{
			"Avoid high-risk areas: Darién Gap (impassable by land), urban areas in Honduras " +
				"(San Pedro Sula), and Mexican regions with cartel presence (Guerrero, Chihuahua outside highways).",
			"Deploy armed convoys with armored vehicles and escorts in vulnerable segments.",
			"Use surveillance drones and satellite communication for real-time monitoring.",
			"Establish protocols for border crossings, with personnel trained in negotiation and crowd control.",
		},
		Logistics: []string{
			"Plan resupply stations every 300-400 km, especially on main highways.",
			"Coordinate with local armies for expedited border permits (Paso Canoas, Peñas Blancas, Ciudad Hidalgo).",
			"Secure maritime or air transport from Cartagena to Panama, with capacity for vehicles and personnel.",
			"Maintain reserves of fuel, food, and spare parts in each convoy.",
		},
		TimelineNote: "The total estimated time for the route is 7 to 10 days, considering driving, rest, " +
			"border crossings, and logistics. Below is the approximate timeline:",
		Timeline: []TimelineEntry{
			{"Day 1", "Bogotá → Cúcuta", "560 km", "10-12 hours", "Overnight in Cúcuta, security review."},
			{"Day 2", "Cúcuta → Cartagena", "430 km", "8 hours", "Preparation for Panama transfer."},
			{"Day 3", "Cartagena → Panama City", "600 km (gap)", "12-24 hours", "Maritime/air logistics."},
			{"Day 4", "Panama City → San José", "530 km", "8-10 hours", "Rest in San José."},
			{"Day 5", "San José → Managua", "430 km", "7-8 hours", "Border review in Nicaragua."},
			{"Day 6", "Managua → Tegucigalpa", "400 km", "7-8 hours", "Overnight in Tegucigalpa, enhanced security."},
			{"Day 7", "Tegucigalpa → Guatemala City", "360 km", "6-7 hours", "Coordination with Guatemala."},
			{"Day 8", "Guatemala City → Tapachula", "250 km", "5-6 hours", "Entry to Mexico, customs inspection."},
			{"Day 9", "Tapachula → Mexico City", "1,100 km", "14-16 hours", "Rest in Mexico City."},
			{"Day 10", "Mexico City → Ciudad Juárez", "1,800 km", "20-22 hours", "Arrival at destination."},
		},
		DrivingSummary: "Total driving time: ~95-110 hours (~4-5 days without stops). " +
			"With rest and logistics, estimated at 7-10 days.",
		Recommendations: []string{
			"Conduct prior route reconnaissance using satellite intelligence and drones to identify threats.",
			"Establish mobile checkpoints in each country, with constant communication between convoys.",
			"Train personnel in border procedures and ambush response.",
			"Prioritize toll highways in Mexico (150D, 57D, 45D) to minimize risks.",
			"Maintain flexibility to adjust the route in case of road closures or unexpected conflicts.",
		},
		Conclusion: "The military route from Bogotá to Ciudad Juárez is feasible in 7 to 10 days, using main " +
			"highways and a logistical gap in the Darién. Detailed planning, with emphasis on security and " +
			"logistics, ensures efficient execution. International coordination and the use of surveillance " +
			"technology will be critical to the operation's success.",
	}
}
