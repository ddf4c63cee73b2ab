// Package scene turns a sampled trajectory into the renderer-independent
// picture both front ends draw: positions in kilometres, symmetric axis
// limits, icon placement and the per-frame readout.
package scene
