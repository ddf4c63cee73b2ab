// Package gui renders the trajectory animation in a desktop window using
// raylib. Icons are loaded as textures from the asset directory.
package gui
