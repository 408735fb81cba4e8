package catalog

import "github.com/beatreach/beatreach/internal/types"

// Seed returns the built-in candidate set used to populate an empty catalog.
func Seed() []types.Influencer {
	return []types.Influencer{
		{
			ID:             "13800",
			Name:           "Tommy Pena",
			Platform:       "TikTok",
			Followers:      9992,
			EngagementRate: 8.5,
			Niche:          "Entertainment",
			Location:       "United States",
			Price:          500,
			Website:        "https://www.tiktok.com/@tfivek",
			Handle:         "tfivek",
		},
		{
			ID:             "4363",
			Name:           "Patricio Arroyuelo Trigos",
			Platform:       "TikTok",
			Followers:      9991,
			EngagementRate: 7.8,
			Niche:          "Lifestyle",
			Location:       "Mexico",
			Price:          450,
			Website:        "https://www.tiktok.com/@patchat",
			Handle:         "patchat",
		},
		{
			ID:             "3753",
			Name:           "Melissa Parra",
			Platform:       "TikTok",
			Followers:      998300,
			EngagementRate: 12.4,
			Niche:          "Dance & Music",
			Location:       "Colombia",
			Price:          2500,
			Website:        "https://www.tiktok.com/@ZameParra",
			Handle:         "ZameParra",
		},
		{
			ID:             "12687",
			Name:           "John Gill",
			Platform:       "TikTok",
			Followers:      99800,
			EngagementRate: 9.2,
			Niche:          "Comedy",
			Location:       "United States",
			Price:          800,
			Website:        "https://www.tiktok.com/@gillactic",
			Handle:         "gillactic",
		},
		{
			ID:             "4736",
			Name:           "Anabel Ramírez",
			Platform:       "TikTok",
			Followers:      997900,
			EngagementRate: 11.5,
			Niche:          "Lifestyle & Fashion",
			Location:       "Mexico",
			Price:          2400,
			Website:        "https://www.tiktok.com/@anabelramirez07",
			Handle:         "anabelramirez07",
		},
		{
			ID:             "4519",
			Name:           "Holley Stevenson",
			Platform:       "TikTok",
			Followers:      99500,
			EngagementRate: 9.8,
			Niche:          "Lifestyle",
			Location:       "United States",
			Price:          750,
			Website:        "https://www.tiktok.com/@holleystevenson",
			Handle:         "holleystevenson",
		},
		{
			ID:             "10735",
			Name:           "Idalys Giselle Jimenez",
			Platform:       "TikTok",
			Followers:      9936,
			EngagementRate: 7.9,
			Niche:          "Entertainment",
			Location:       "United States",
			Price:          400,
			Website:        "https://www.tiktok.com/@gisey_giselle",
			Handle:         "gisey_giselle",
		},
		{
			ID:             "2405",
			Name:           "Tomás Riquelme Andrade",
			Platform:       "TikTok",
			Followers:      993300,
			EngagementRate: 10.5,
			Niche:          "Entertainment",
			Location:       "Chile",
			Price:          2300,
			Website:        "https://www.tiktok.com/@tomiipapii",
			Handle:         "tomiipapii",
		},
		{
			ID:             "9895",
			Name:           "Yorgelys Contreras",
			Platform:       "TikTok",
			Followers:      99100,
			EngagementRate: 8.7,
			Niche:          "Lifestyle",
			Location:       "Venezuela",
			Price:          700,
			Website:        "https://www.tiktok.com/@Yorgelys21",
			Handle:         "Yorgelys21",
		},
	}
}
