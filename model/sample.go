package model

// DefaultAlbumArts are the bundled covers; uploads get one of them at random.
var DefaultAlbumArts = []string{
	"/album-covers/cover1.jpg",
	"/album-covers/cover2.jpg",
	"/album-covers/cover3.jpg",
	"/album-covers/cover4.jpg",
	"/album-covers/cover5.jpg",
	"/album-covers/cover6.jpg",
}

// SampleTracks is the seed playlist used when the library is empty.
func SampleTracks() []Track {
	return []Track{
		{ID: "track-1", Title: "Reflections", Artist: "Windows Media", Album: "Sample Music", Duration: 217, Cover: StringPtr("/album-covers/cover1.jpg"), File: "/music/sample1.mp3"},
		{ID: "track-2", Title: "Maid with the Flaxen Hair", Artist: "Richard Stoltzman", Album: "Sample Music", Duration: 184, Cover: StringPtr("/album-covers/cover2.jpg"), File: "/music/sample2.mp3"},
		{ID: "track-3", Title: "Kalimba", Artist: "Mr. Scruff", Album: "Ninja Tuna", Duration: 243, Cover: StringPtr("/album-covers/cover3.jpg"), File: "/music/sample3.mp3"},
		{ID: "track-4", Title: "Sleep Away", Artist: "Bob Acri", Album: "Sample Music", Duration: 198, Cover: StringPtr("/album-covers/cover4.jpg"), File: "/music/sample4.mp3"},
		{ID: "track-5", Title: "Sonata No. 1 in F Minor", Artist: "Beethoven", Album: "Classical Collection", Duration: 226, Cover: StringPtr("/album-covers/cover5.jpg"), File: "/music/sample5.mp3"},
	}
}
