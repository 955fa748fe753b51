// Package catalog holds the read-only lookup data the agents are configured
// with: story categories, story arcs and the age-appropriateness guidelines.
package catalog

import (
	"strings"

	"github.com/lamim/storyforge/pkg/models"
)

// CategoryInfo describes one story category
type CategoryInfo struct {
	Name        models.Category
	Description string   // Shown to the categorizer
	Keywords    []string // Request keywords that suggest this category
	Focus       string   // Instruction appended to the story prompt
	Example     string   // Few-shot excerpt for the storyteller
}

// Catalog is an immutable category table
type Catalog struct {
	categories []CategoryInfo
	byName     map[models.Category]int
}

// New builds a catalog from the given entries. The entry named MIXED is the
// fallback for unknown categories and must be present.
func New(entries []CategoryInfo) *Catalog {
	c := &Catalog{
		categories: make([]CategoryInfo, len(entries)),
		byName:     make(map[models.Category]int, len(entries)),
	}
	copy(c.categories, entries)
	for i, e := range c.categories {
		c.byName[e.Name] = i
	}
	return c
}

// Default returns the built-in seven-category catalog
func Default() *Catalog {
	return New(defaultCategories)
}

// Categories returns the entries in classification order
func (c *Catalog) Categories() []CategoryInfo {
	out := make([]CategoryInfo, len(c.categories))
	copy(out, c.categories)
	return out
}

// Lookup returns the entry for name, case-insensitively
func (c *Catalog) Lookup(name models.Category) (CategoryInfo, bool) {
	idx, ok := c.byName[models.Category(strings.ToUpper(strings.TrimSpace(string(name))))]
	if !ok {
		return CategoryInfo{}, false
	}
	return c.categories[idx], true
}

// LookupOrMixed returns the entry for name or the MIXED entry when name is unknown
func (c *Catalog) LookupOrMixed(name models.Category) CategoryInfo {
	if info, ok := c.Lookup(name); ok {
		return info
	}
	info, _ := c.Lookup(models.CategoryMixed)
	return info
}

// MatchKeywords returns the category whose keywords appear most often in text.
// Ties go to the earlier category; no hits returns false.
func (c *Catalog) MatchKeywords(text string) (models.Category, bool) {
	lower := strings.ToLower(text)
	best, bestHits := models.Category(""), 0
	for _, info := range c.categories {
		hits := 0
		for _, kw := range info.Keywords {
			if strings.Contains(lower, kw) {
				hits++
			}
		}
		if hits > bestHits {
			best, bestHits = info.Name, hits
		}
	}
	return best, bestHits > 0
}

var defaultCategories = []CategoryInfo{
	{
		Name:        models.CategoryAdventure,
		Description: "Stories about journeys, quests, exploration, discovery",
		Keywords:    []string{"journey", "quest", "explore", "adventure", "discover", "travel"},
		Focus:       "Focus on exploration, discovery, and exciting journeys with clear goals and obstacles.",
		Example: `Example Adventure Story (excerpt):
Once upon a time, there was a brave little explorer named Maya who loved discovering new places. One sunny morning, Maya found a mysterious map in her grandmother's attic. The map showed a path to a hidden treasure in the nearby forest.

Maya grabbed her backpack filled with snacks and a flashlight, and set off on her adventure. She followed the map carefully, crossing streams and climbing small hills. Along the way, she met friendly animals who helped her find the right path.

Finally, after solving a tricky puzzle written on an old tree, Maya discovered the treasure: a beautiful collection of her grandmother's childhood memories. The real treasure was learning about her family's history and the joy of exploring.`,
	},
	{
		Name:        models.CategoryFriendship,
		Description: "Stories about relationships, helping friends, teamwork",
		Keywords:    []string{"friend", "friendship", "team", "together", "help", "relationship"},
		Focus:       "Emphasize relationships, helping others, teamwork, and the value of friendship.",
		Example: `Example Friendship Story (excerpt):
Lily and Sam were best friends who did everything together. One day, a new student named Alex joined their class. Alex seemed shy and didn't talk to anyone.

Lily noticed Alex sitting alone during lunch and decided to invite them to join her and Sam. At first, Sam felt a little left out because Lily was spending time with Alex. But then Sam realized that having more friends meant more fun!

Together, the three friends discovered they all loved the same games and stories. They learned that friendship isn't about having just one friend, but about making room for everyone. Lily, Sam, and Alex became the best of friends, and they always included each other in their adventures.`,
	},
	{
		Name:        models.CategoryMagicFantasy,
		Description: "Stories with magical elements, fantasy creatures, wonder",
		Keywords:    []string{"magic", "fantasy", "wizard", "dragon", "fairy", "spell", "enchanted"},
		Focus:       "Include magical elements, wonder, and fantasy creatures while keeping it age-appropriate.",
		Example: `Example Magic/Fantasy Story (excerpt):
In a small town where magic was hidden in everyday things, lived a young girl named Emma who could talk to flowers. Every morning, the flowers in her garden would whisper stories about the magical creatures that lived in the nearby woods.

One evening, a tiny fairy named Pip appeared at Emma's window, asking for help. The fairy's magical forest was losing its sparkle because the creatures had forgotten how to believe in magic.

Emma and Pip set off on a magical journey, meeting talking trees, singing birds, and dancing fireflies. Together, they reminded everyone that magic comes from believing, being kind, and seeing wonder in ordinary moments. The forest's sparkle returned, brighter than ever before.`,
	},
	{
		Name:        models.CategoryAnimals,
		Description: "Stories featuring animals as main characters",
		Keywords:    []string{"animal", "cat", "dog", "bunny", "bird", "elephant", "tiger"},
		Focus:       "Feature animals as main characters with human-like qualities and emotions.",
		Example: `Example Animal Story (excerpt):
Bunny the rabbit was the smallest animal in the meadow, but she had the biggest heart. All the other animals thought she was too small to help with important tasks, but Bunny believed she could do anything she set her mind to.

When the meadow's food supply started running low, all the animals worried. Bunny had an idea: she could reach the small spaces where berries grew that bigger animals couldn't access. She organized all the meadow animals to work together, each using their unique abilities.

Thanks to Bunny's clever thinking and teamwork, the meadow animals had plenty of food for the winter. Bunny learned that being small didn't mean being less important, and everyone learned that working together makes everyone stronger.`,
	},
	{
		Name:        models.CategoryProblemSolving,
		Description: "Stories about overcoming challenges, puzzles, creativity",
		Keywords:    []string{"problem", "solve", "challenge", "puzzle", "creative", "fix"},
		Focus:       "Show creative problem-solving, overcoming challenges through thinking and persistence.",
		Example: `Example Problem-Solving Story (excerpt):
Jake loved building things, but his favorite toy robot had stopped working. He tried everything - new batteries, checking all the parts, even asking his parents for help. Nothing seemed to work.

Instead of giving up, Jake decided to think like a scientist. He carefully took the robot apart and examined each piece. He drew pictures of what he saw and made notes about how everything connected.

After studying the problem, Jake realized that a small wire had come loose. With patience and careful attention, he fixed the wire and put the robot back together. The robot worked perfectly! Jake learned that problems can be solved by being patient, observant, and not giving up.`,
	},
	{
		Name:        models.CategoryEveryday,
		Description: "Stories about normal life situations, school, family",
		Keywords:    []string{"school", "family", "home", "everyday", "normal", "daily"},
		Focus:       "Focus on relatable situations, family, school, and normal life experiences.",
		Example: `Example Everyday Story (excerpt):
Every morning, Maya helped her family by making her bed and setting the breakfast table. She loved these small routines because they made her feel capable and responsible.

One day, Maya's little brother was feeling sad because he couldn't tie his shoes. Maya remembered how patient her parents had been when teaching her, so she sat down with her brother and showed him step by step.

After practicing together every morning, Maya's brother learned to tie his shoes. He was so proud! Maya felt happy too, because she had learned that helping others and being patient feels wonderful. It became their special morning routine.`,
	},
	{
		Name:        models.CategoryMixed,
		Description: "Stories that combine multiple categories",
		Focus:       "Combine elements from multiple categories to create a rich, engaging story.",
		Example: `Example Mixed Story (excerpt):
Emma loved her everyday life, but she also dreamed of magical adventures. One ordinary Tuesday, something extraordinary happened. While playing in her backyard, Emma discovered a small door that appeared in the base of an old oak tree.

Curious, Emma opened the door and found herself in a magical forest where animals could talk and flowers glowed with soft light. A friendly rabbit named Pip asked for her help - the forest's magic was fading because children had stopped believing in wonder.

Emma used her problem-solving skills from school and her kindness to help the forest creatures. She organized a plan to show the magic to other children, proving that everyday life can be full of wonder if you look for it. The forest's magic grew stronger, and Emma learned that adventure and friendship can be found anywhere.`,
	},
}
