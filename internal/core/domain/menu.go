package domain

type DailyMenu struct {
	Breakfast string `json:"breakfast"`
	Lunch     string `json:"lunch"`
	Dinner    string `json:"dinner"`
}

type WeeklyMenu struct {
	Monday    DailyMenu `json:"Monday"`
	Tuesday   DailyMenu `json:"Tuesday"`
	Wednesday DailyMenu `json:"Wednesday"`
	Thursday  DailyMenu `json:"Thursday"`
	Friday    DailyMenu `json:"Friday"`
	Saturday  DailyMenu `json:"Saturday"`
	Sunday    DailyMenu `json:"Sunday"`
}

// DefaultWeeklyMenu is served until the kitchen publishes its own.
func DefaultWeeklyMenu() WeeklyMenu {
	return WeeklyMenu{
		Monday:    DailyMenu{Breakfast: "Eggs & Toast", Lunch: "Chicken Curry", Dinner: "Vegetable Rice"},
		Tuesday:   DailyMenu{Breakfast: "Oatmeal", Lunch: "Beef Stew", Dinner: "Pasta"},
		Wednesday: DailyMenu{Breakfast: "Pancakes", Lunch: "Lentils", Dinner: "Roast Chicken"},
		Thursday:  DailyMenu{Breakfast: "Omelette", Lunch: "Fish Fry", Dinner: "Soup & Bread"},
		Friday:    DailyMenu{Breakfast: "French Toast", Lunch: "Biryani", Dinner: "Burgers"},
		Saturday:  DailyMenu{Breakfast: "Paratha", Lunch: "Sandwiches", Dinner: "Pizza"},
		Sunday:    DailyMenu{Breakfast: "Halwa Puri", Lunch: "Noodles", Dinner: "Barbecue"},
	}
}
