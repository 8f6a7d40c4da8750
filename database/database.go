package database

import (
	"gorm.io/gorm"
)

type Database struct {
	postRepo     *PostRepo
	categoryRepo *CategoryRepo
	tagRepo      *TagRepo
	seriesRepo   *SeriesRepo
	postTagRepo  *PostTagRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		postRepo:     NewPostRepo(db),
		categoryRepo: NewCategoryRepo(db),
		tagRepo:      NewTagRepo(db),
		seriesRepo:   NewSeriesRepo(db),
		postTagRepo:  NewPostTagRepo(db),
	}
}

// Accessor methods for each repository

func (d Database) PostRepo() *PostRepo {
	return d.postRepo
}

func (d Database) CategoryRepo() *CategoryRepo {
	return d.categoryRepo
}

func (d Database) TagRepo() *TagRepo {
	return d.tagRepo
}

func (d Database) SeriesRepo() *SeriesRepo {
	return d.seriesRepo
}

func (d Database) PostTagRepo() *PostTagRepo {
	return d.postTagRepo
}
