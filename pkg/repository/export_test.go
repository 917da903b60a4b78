package repository

var StartupCollection = startupCollection
