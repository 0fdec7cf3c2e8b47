package migrations

import (
	"context"

	"github.com/pkg/errors"
	"github.com/uptrace/bun"
)

type seedGenre struct {
	bun.BaseModel `bun:"table:genres"`

	ID     int    `bun:",pk,autoincrement"`
	Code   string `bun:"code"`
	NameRu string `bun:"name_ru"`
	NameEn string `bun:"name_en"`
}

// Standard FictionBook 2.1 genre codes.
var fb2Genres = []seedGenre{
	{Code: "sf_history", NameRu: "Альтернативная история", NameEn: "Alternative history"},
	{Code: "sf_action", NameRu: "Боевая фантастика", NameEn: "Action science fiction"},
	{Code: "sf_epic", NameRu: "Эпическая фантастика", NameEn: "Epic science fiction"},
	{Code: "sf_heroic", NameRu: "Героическая фантастика", NameEn: "Heroic science fiction"},
	{Code: "sf_detective", NameRu: "Детективная фантастика", NameEn: "Detective science fiction"},
	{Code: "sf_cyberpunk", NameRu: "Киберпанк", NameEn: "Cyberpunk"},
	{Code: "sf_space", NameRu: "Космическая фантастика", NameEn: "Space science fiction"},
	{Code: "sf_social", NameRu: "Социально-психологическая фантастика", NameEn: "Social science fiction"},
	{Code: "sf_horror", NameRu: "Ужасы и мистика", NameEn: "Horror and mystic"},
	{Code: "sf_humor", NameRu: "Юмористическая фантастика", NameEn: "Humorous science fiction"},
	{Code: "sf_fantasy", NameRu: "Фэнтези", NameEn: "Fantasy"},
	{Code: "sf", NameRu: "Научная фантастика", NameEn: "Science fiction"},
	{Code: "det_classic", NameRu: "Классический детектив", NameEn: "Classical detective"},
	{Code: "det_police", NameRu: "Полицейский детектив", NameEn: "Police stories"},
	{Code: "det_action", NameRu: "Боевик", NameEn: "Action"},
	{Code: "det_irony", NameRu: "Иронический детектив", NameEn: "Ironical detective"},
	{Code: "det_history", NameRu: "Исторический детектив", NameEn: "Historical detective"},
	{Code: "det_espionage", NameRu: "Шпионский детектив", NameEn: "Espionage detective"},
	{Code: "det_crime", NameRu: "Криминальный детектив", NameEn: "Crime detective"},
	{Code: "det_political", NameRu: "Политический детектив", NameEn: "Political detective"},
	{Code: "det_maniac", NameRu: "Маньяки", NameEn: "Maniacs"},
	{Code: "det_hard", NameRu: "Крутой детектив", NameEn: "Hard-boiled"},
	{Code: "thriller", NameRu: "Триллер", NameEn: "Thrillers"},
	{Code: "detective", NameRu: "Детектив", NameEn: "Detective"},
	{Code: "prose_classic", NameRu: "Классическая проза", NameEn: "Classics prose"},
	{Code: "prose_history", NameRu: "Историческая проза", NameEn: "Historical prose"},
	{Code: "prose_contemporary", NameRu: "Современная проза", NameEn: "Contemporary prose"},
	{Code: "prose_counter", NameRu: "Контркультура", NameEn: "Counterculture"},
	{Code: "prose_rus_classic", NameRu: "Русская классическая проза", NameEn: "Russian classics prose"},
	{Code: "prose_su_classics", NameRu: "Советская классическая проза", NameEn: "Soviet classics prose"},
	{Code: "love_contemporary", NameRu: "Современные любовные романы", NameEn: "Contemporary romance"},
	{Code: "love_history", NameRu: "Исторические любовные романы", NameEn: "Historical romance"},
	{Code: "love_detective", NameRu: "Остросюжетные любовные романы", NameEn: "Detective romance"},
	{Code: "love_short", NameRu: "Короткие любовные романы", NameEn: "Short romance"},
	{Code: "love_erotica", NameRu: "Эротика", NameEn: "Erotica"},
	{Code: "adv_western", NameRu: "Вестерн", NameEn: "Western"},
	{Code: "adv_history", NameRu: "Исторические приключения", NameEn: "History adventure"},
	{Code: "adv_indian", NameRu: "Приключения про индейцев", NameEn: "Indian adventure"},
	{Code: "adv_maritime", NameRu: "Морские приключения", NameEn: "Maritime fiction"},
	{Code: "adv_geo", NameRu: "Путешествия и география", NameEn: "Travel and geography"},
	{Code: "adv_animal", NameRu: "Природа и животные", NameEn: "Nature and animals"},
	{Code: "adventure", NameRu: "Приключения", NameEn: "Adventure"},
	{Code: "child_tale", NameRu: "Сказка", NameEn: "Fairy tales"},
	{Code: "child_verse", NameRu: "Детские стихи", NameEn: "Verses"},
	{Code: "child_prose", NameRu: "Детская проза", NameEn: "Prose for kids"},
	{Code: "child_sf", NameRu: "Детская фантастика", NameEn: "Science fiction for kids"},
	{Code: "child_det", NameRu: "Детские остросюжетные", NameEn: "Detectives and thrillers for kids"},
	{Code: "child_adv", NameRu: "Детские приключения", NameEn: "Adventures for kids"},
	{Code: "child_education", NameRu: "Детская образовательная литература", NameEn: "Education for kids"},
	{Code: "children", NameRu: "Детская литература", NameEn: "For kids"},
	{Code: "poetry", NameRu: "Поэзия", NameEn: "Poetry"},
	{Code: "dramaturgy", NameRu: "Драматургия", NameEn: "Dramaturgy"},
	{Code: "antique_ant", NameRu: "Античная литература", NameEn: "Antique literature"},
	{Code: "antique_european", NameRu: "Европейская старинная литература", NameEn: "European antique literature"},
	{Code: "antique_russian", NameRu: "Древнерусская литература", NameEn: "Old Russian literature"},
	{Code: "antique_east", NameRu: "Древневосточная литература", NameEn: "Old East literature"},
	{Code: "antique_myths", NameRu: "Мифы. Легенды. Эпос", NameEn: "Myths. Legends. Epos"},
	{Code: "antique", NameRu: "Старинная литература", NameEn: "Antique"},
	{Code: "sci_history", NameRu: "История", NameEn: "History"},
	{Code: "sci_psychology", NameRu: "Психология", NameEn: "Psychology"},
	{Code: "sci_culture", NameRu: "Культурология", NameEn: "Cultural science"},
	{Code: "sci_religion", NameRu: "Религиоведение", NameEn: "Religious studies"},
	{Code: "sci_philosophy", NameRu: "Философия", NameEn: "Philosophy"},
	{Code: "sci_politics", NameRu: "Политика", NameEn: "Politics"},
	{Code: "sci_business", NameRu: "Деловая литература", NameEn: "Business literature"},
	{Code: "sci_juris", NameRu: "Юриспруденция", NameEn: "Jurisprudence"},
	{Code: "sci_linguistic", NameRu: "Языкознание", NameEn: "Linguistics"},
	{Code: "sci_medicine", NameRu: "Медицина", NameEn: "Medicine"},
	{Code: "sci_phys", NameRu: "Физика", NameEn: "Physics"},
	{Code: "sci_math", NameRu: "Математика", NameEn: "Mathematics"},
	{Code: "sci_chem", NameRu: "Химия", NameEn: "Chemistry"},
	{Code: "sci_biology", NameRu: "Биология", NameEn: "Biology"},
	{Code: "sci_tech", NameRu: "Технические науки", NameEn: "Technical"},
	{Code: "science", NameRu: "Научная литература", NameEn: "Science"},
	{Code: "comp_www", NameRu: "Интернет", NameEn: "Internet"},
	{Code: "comp_programming", NameRu: "Программирование", NameEn: "Programming"},
	{Code: "comp_hard", NameRu: "Компьютерное железо", NameEn: "Hardware"},
	{Code: "comp_soft", NameRu: "Программы", NameEn: "Software"},
	{Code: "comp_db", NameRu: "Базы данных", NameEn: "Databases"},
	{Code: "comp_osnet", NameRu: "ОС и сети", NameEn: "OS and networking"},
	{Code: "computers", NameRu: "Компьютерная литература", NameEn: "Computers"},
	{Code: "ref_encyc", NameRu: "Энциклопедии", NameEn: "Encyclopedias"},
	{Code: "ref_dict", NameRu: "Словари", NameEn: "Dictionaries"},
	{Code: "ref_ref", NameRu: "Справочники", NameEn: "Reference"},
	{Code: "ref_guide", NameRu: "Руководства", NameEn: "Guidebooks"},
	{Code: "reference", NameRu: "Справочная литература", NameEn: "Reference"},
	{Code: "nonf_biography", NameRu: "Биографии и мемуары", NameEn: "Biography and memoirs"},
	{Code: "nonf_publicism", NameRu: "Публицистика", NameEn: "Publicism"},
	{Code: "nonf_criticism", NameRu: "Критика", NameEn: "Criticism"},
	{Code: "design", NameRu: "Искусство и дизайн", NameEn: "Art and design"},
	{Code: "nonfiction", NameRu: "Документальная литература", NameEn: "Nonfiction"},
	{Code: "religion_rel", NameRu: "Религия", NameEn: "Religion"},
	{Code: "religion_esoterics", NameRu: "Эзотерика", NameEn: "Esoterics"},
	{Code: "religion_self", NameRu: "Самосовершенствование", NameEn: "Self-improvement"},
	{Code: "religion", NameRu: "Религиозная литература", NameEn: "Religion"},
	{Code: "humor_anecdote", NameRu: "Анекдоты", NameEn: "Anecdote"},
	{Code: "humor_prose", NameRu: "Юмористическая проза", NameEn: "Humor prose"},
	{Code: "humor_verse", NameRu: "Юмористические стихи", NameEn: "Humor verses"},
	{Code: "humor", NameRu: "Юмор", NameEn: "Humor"},
	{Code: "home_cooking", NameRu: "Кулинария", NameEn: "Cooking"},
	{Code: "home_pets", NameRu: "Домашние животные", NameEn: "Pets"},
	{Code: "home_crafts", NameRu: "Хобби и ремесла", NameEn: "Hobbies and crafts"},
	{Code: "home_entertain", NameRu: "Развлечения", NameEn: "Entertaining"},
	{Code: "home_health", NameRu: "Здоровье", NameEn: "Health"},
	{Code: "home_garden", NameRu: "Сад и огород", NameEn: "Garden"},
	{Code: "home_diy", NameRu: "Сделай сам", NameEn: "Do it yourself"},
	{Code: "home_sport", NameRu: "Спорт", NameEn: "Sports"},
	{Code: "home_sex", NameRu: "Эротика, секс", NameEn: "Erotica, sex"},
	{Code: "home", NameRu: "Домоводство", NameEn: "Home"},
}

func init() {
	up := func(ctx context.Context, db *bun.DB) error {
		genres := make([]seedGenre, len(fb2Genres))
		copy(genres, fb2Genres)
		_, err := db.NewInsert().
			Model(&genres).
			On("CONFLICT (code) DO NOTHING").
			Exec(ctx)
		return errors.WithStack(err)
	}

	down := func(ctx context.Context, db *bun.DB) error {
		codes := make([]string, 0, len(fb2Genres))
		for _, g := range fb2Genres {
			codes = append(codes, g.Code)
		}
		_, err := db.NewDelete().
			Table("genres").
			Where("code IN (?)", bun.In(codes)).
			Exec(ctx)
		return errors.WithStack(err)
	}

	Migrations.MustRegister(up, down)
}
